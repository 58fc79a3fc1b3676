package harvest

// scriptParams is the single argument passed to the injected procedure.
// Field names must match the opts accesses inside harvestScript.
type scriptParams struct {
	// ContainerSelector locates the generated-answer container.
	ContainerSelector string `json:"containerSelector"`

	// PanelSelector locates the side panel that trigger clicks populate.
	PanelSelector string `json:"panelSelector"`

	// TriggerLabels are accessibility-label fragments identifying the
	// citation trigger controls.
	TriggerLabels []string `json:"triggerLabels"`

	// SkipDomains are provider-owned domains excluded from sources.
	SkipDomains []string `json:"skipDomains"`

	// PollIntervalMS / PollCeilingMS / SettleMS tune the post-click
	// poll-then-settle wait, in milliseconds.
	PollIntervalMS int `json:"pollIntervalMs"`
	PollCeilingMS  int `json:"pollCeilingMs"`
	SettleMS       int `json:"settleMs"`
}

// harvestScript is the interactive procedure evaluated inside the page.
//
// For each visible citation trigger, in document order, it inserts a
// [CITE-n] marker node right after the trigger, clicks the trigger, waits
// for the side panel's visible-link count to change (bounded poll, then a
// short settle for animations), and records the panel's external links as
// one citation group. Triggers hidden by the page's own conditional
// rendering are skipped so citation numbering matches what a user sees.
//
// The final return carries the container's markup after all insertions
// together with every group, so the caller never sees a half-annotated
// document.
const harvestScript = `async (opts) => {
    function isVisible(el) {
        if (!el) return false;
        const style = window.getComputedStyle(el);
        const rect = el.getBoundingClientRect();
        return style.display !== 'none' &&
               style.visibility !== 'hidden' &&
               style.opacity !== '0' &&
               el.offsetParent !== null &&
               rect.width > 0 &&
               rect.height > 0;
    }

    const container = document.querySelector(opts.containerSelector);
    if (!container) return { error: 'main content container not found' };

    const triggerSelector = opts.triggerLabels
        .map((label) => '[aria-label*="' + label + '"]')
        .join(', ');
    const triggers = Array.from(container.querySelectorAll(triggerSelector));

    const countVisiblePanelLinks = () => {
        const panel = document.querySelector(opts.panelSelector);
        if (!panel) return 0;
        return Array.from(panel.querySelectorAll('a[href]')).filter(isVisible).length;
    };

    const sleep = (ms) => new Promise((resolve) => setTimeout(resolve, ms));

    const citations = [];
    let markerIndex = 0;

    for (const trigger of triggers) {
        if (!isVisible(trigger)) continue;

        const markerId = markerIndex++;
        const marker = document.createElement('span');
        marker.className = 'citation-marker';
        marker.textContent = '[CITE-' + markerId + ']';
        if (trigger.nextSibling) {
            trigger.parentNode.insertBefore(marker, trigger.nextSibling);
        } else {
            trigger.parentNode.appendChild(marker);
        }

        try {
            trigger.scrollIntoView({ behavior: 'instant', block: 'center' });
            const beforeCount = countVisiblePanelLinks();
            trigger.click();

            const start = Date.now();
            while (Date.now() - start < opts.pollCeilingMs) {
                await sleep(opts.pollIntervalMs);
                if (countVisiblePanelLinks() !== beforeCount) break;
            }
            await sleep(opts.settleMs);
        } catch (e) {
            console.warn('trigger activation failed', e);
        }

        const sources = [];
        const seen = new Set();
        const panel = document.querySelector(opts.panelSelector);
        if (panel) {
            for (const link of Array.from(panel.querySelectorAll('a[href]'))) {
                if (!isVisible(link)) continue;
                const url = link.href;
                const title = link.innerText.trim() || link.getAttribute('aria-label') || '';
                if (!url || !url.startsWith('http')) continue;
                if (opts.skipDomains.some((d) => url.includes(d))) continue;
                if (seen.has(url)) continue;
                seen.add(url);
                sources.push({ title: title, url: url, source: new URL(url).hostname });
            }
        }

        citations.push({ marker_id: markerId, sources: sources });
    }

    return { html: container.innerHTML, citations: citations };
}`
