package browser

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-indeed-relay/internal/config"
	"go-indeed-relay/internal/scraper"
	"go-indeed-relay/utils"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightManager owns the playwright driver. Each Open launches a fresh Chromium so that runs
// never share cookies, tabs or a crashed renderer.
type PlaywrightManager struct {
	pw  *playwright.Playwright
	cfg config.BrowserConfig
}

func NewPlaywright(cfg config.BrowserConfig) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	return &PlaywrightManager{pw: pw, cfg: cfg}, nil
}

// Open launches a browser with the stealth bootstrap applied and returns its only tab.
func (pm *PlaywrightManager) Open(ctx context.Context) (scraper.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := pm.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(pm.cfg.Headless),
		Args:     launchArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	bctx, err := pm.NewContext(b)
	if err != nil {
		b.Close()
		return nil, err
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		b.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	var shots *utils.ScreenShotDebugger
	if pm.cfg.ScreenshotDir != "" {
		shots = utils.NewScreenShotDebugger(pm.cfg.ScreenshotDir)
	}

	return &Session{
		browser:       b,
		bctx:          bctx,
		page:          page,
		navTimeout:    pm.cfg.NavTimeout,
		lookupTimeout: pm.cfg.LookupTimeout,
		shots:         shots,
	}, nil
}

// NewContext creates a browser context with cookies and the stealth init script.
func (pm *PlaywrightManager) NewContext(b playwright.Browser) (playwright.BrowserContext, error) {
	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:  playwright.String(userAgent),
		Locale:     playwright.String("en-US"),
		NoViewport: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if err := ApplyStealth(bctx); err != nil {
		bctx.Close()
		return nil, err
	}

	if pm.cfg.CookiesPath != "" {
		cookies, err := LoadCookies(pm.cfg.CookiesPath)
		if err != nil {
			log.Printf("⚠️ Could not load cookies from %s: %v. Continuing.", pm.cfg.CookiesPath, err)
		} else if len(cookies) > 0 {
			if err := bctx.AddCookies(cookies); err != nil {
				log.Printf("⚠️ Failed to add cookies: %v", err)
			} else {
				log.Printf("🍪 Loaded %d cookies", len(cookies))
			}
		}
	}
	return bctx, nil
}

func (pm *PlaywrightManager) Close() error {
	return pm.pw.Stop()
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
