package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

var launchArgs = []string{
	"--start-maximized",
	"--disable-blink-features=AutomationControlled",
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// stealthScript runs before any page script in every frame.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
window.chrome = window.chrome || { runtime: {} };
`

// ApplyStealth hides the usual automation fingerprints from the pages of bctx.
func ApplyStealth(bctx playwright.BrowserContext) error {
	if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
		return fmt.Errorf("could not add stealth script: %w", err)
	}
	return nil
}
