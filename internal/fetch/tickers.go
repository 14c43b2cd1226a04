package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SP500Tickers scrapes the S&P 500 constituent list. Dots in class
// shares become hyphens to match the chart API's symbol format
// (BRK.B -> BRK-B).
func (c *Client) SP500Tickers(ctx context.Context) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, c.cfg.SP500SourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("constituents request failed: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse constituents page failed: %w", err)
	}

	var tickers []string
	doc.Find("table#constituents tbody tr td:first-child").Each(func(_ int, sel *goquery.Selection) {
		symbol := strings.TrimSpace(sel.Text())
		if symbol == "" {
			return
		}
		tickers = append(tickers, strings.ReplaceAll(symbol, ".", "-"))
	})

	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers found on constituents page")
	}

	c.logger.WithField("count", len(tickers)).Info("Retrieved S&P 500 tickers")
	return tickers, nil
}

// TrendingTickers scrapes the most-active list, capped at the configured
// limit. Duplicates are removed while preserving page order.
func (c *Client) TrendingTickers(ctx context.Context) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, c.cfg.TrendingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("trending request failed: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse trending page failed: %w", err)
	}

	seen := make(map[string]bool)
	var tickers []string
	doc.Find("table tbody tr td:first-child a").Each(func(_ int, sel *goquery.Selection) {
		symbol := strings.TrimSpace(sel.Text())
		if symbol == "" || seen[symbol] {
			return
		}
		seen[symbol] = true
		tickers = append(tickers, symbol)
	})

	if c.cfg.TrendingLimit > 0 && len(tickers) > c.cfg.TrendingLimit {
		tickers = tickers[:c.cfg.TrendingLimit]
	}

	c.logger.WithField("count", len(tickers)).Info("Retrieved trending tickers")
	return tickers, nil
}
