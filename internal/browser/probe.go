// File: internal/browser/probe.go
package browser

// formProbeJS walks the visible application form and describes every
// fillable control. Each element is addressed by an absolute positional
// XPath so the Go side can act on it later without a node handle.
const formProbeJS = `(() => {
  const xpathOf = (el) => {
    const parts = [];
    for (let node = el; node && node.nodeType === Node.ELEMENT_NODE; node = node.parentNode) {
      let idx = 1;
      for (let sib = node.previousElementSibling; sib; sib = sib.previousElementSibling) {
        if (sib.tagName === node.tagName) idx++;
      }
      parts.unshift(node.tagName.toLowerCase() + '[' + idx + ']');
    }
    return '/' + parts.join('/');
  };

  const labelOf = (el) => {
    const aria = el.getAttribute('aria-label');
    if (aria) return aria.trim();
    const placeholder = el.getAttribute('placeholder');
    if (placeholder) return placeholder.trim();
    if (el.id) {
      const forLabel = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
      if (forLabel) return forLabel.textContent.trim();
    }
    const wrapping = el.closest('label');
    if (wrapping) return wrapping.textContent.trim();
    const parent = el.closest('div');
    if (parent) {
      const near = parent.querySelector('label, div[class*="label"]');
      if (near) return near.textContent.trim();
    }
    return '';
  };

  const visible = (el) => {
    const r = el.getBoundingClientRect();
    return r.width > 0 && r.height > 0;
  };

  const fields = [];

  for (const el of document.querySelectorAll(
      'input[type="text"], input[type="tel"], input[type="email"], input[type="url"]')) {
    if (!visible(el)) continue;
    fields.push({ xpath: xpathOf(el), kind: 'text', label: labelOf(el), checked: false, options: [] });
  }

  for (const el of document.querySelectorAll('textarea')) {
    if (!visible(el)) continue;
    fields.push({ xpath: xpathOf(el), kind: 'textarea', label: labelOf(el), checked: false, options: [] });
  }

  for (const el of document.querySelectorAll('select')) {
    if (!visible(el)) continue;
    const options = [];
    for (const opt of el.options) {
      options.push({ xpath: xpathOf(opt), label: opt.textContent.trim() });
    }
    fields.push({ xpath: xpathOf(el), kind: 'dropdown', label: labelOf(el), checked: false, options });
  }

  for (const group of document.querySelectorAll('fieldset')) {
    if (!visible(group)) continue;
    const legend = group.querySelector('legend');
    const options = [];
    for (const lab of group.querySelectorAll('label')) {
      options.push({ xpath: xpathOf(lab), label: lab.textContent.trim() });
    }
    if (options.length === 0) continue;
    fields.push({
      xpath: xpathOf(group),
      kind: 'radio',
      label: legend ? legend.textContent.trim() : '',
      checked: false,
      options,
    });
  }

  for (const el of document.querySelectorAll('input[type="checkbox"]')) {
    if (!visible(el)) continue;
    fields.push({ xpath: xpathOf(el), kind: 'checkbox', label: labelOf(el), checked: el.checked, options: [] });
  }

  return fields;
})()`
