package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

const resultsPageServiceName = "ResultsPage"

var digitsPattern = regexp.MustCompile(`\d+`)

// ResultsPageConfig configures scraping of an HTML results table
type ResultsPageConfig struct {
	URL string
	// RowSelector matches one element per draw. Its cells are read as
	// concourse, date, then the drawn numbers (one per cell or all in one).
	RowSelector string
	// RenderJavaScript loads the page in headless Chrome before parsing, for
	// result tables that are filled in by scripts.
	RenderJavaScript bool
	HTTPTimeout      time.Duration
	RequestRateLimit time.Duration
	HistoryWindow    int
}

// ResultsPageSource reads draws from a public results page. It is a
// HistorySource for deployments without a generation service.
type ResultsPageSource struct {
	config      ResultsPageConfig
	rateLimiter *shared.HTTPRequestRateLimiter
	logger      *logrus.Entry
}

// NewResultsPageSource creates a scraper for config.URL
func NewResultsPageSource(config ResultsPageConfig) *ResultsPageSource {
	if config.RowSelector == "" {
		config.RowSelector = "table tbody tr"
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = 30 * time.Second
	}
	if config.HistoryWindow <= 0 {
		config.HistoryWindow = models.DefaultHistoryWindow
	}
	return &ResultsPageSource{
		config:      config,
		rateLimiter: shared.NewHTTPRequestRateLimiter(config.RequestRateLimit),
		logger:      logrus.WithField("component", "ResultsPageSource"),
	}
}

// FetchHistory downloads the page and returns draws after since, newest first
func (r *ResultsPageSource) FetchHistory(ctx context.Context, since int) ([]models.Draw, error) {
	if err := r.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var (
		body []byte
		err  error
	)
	if r.config.RenderJavaScript {
		body, err = r.render(ctx)
	} else {
		body, err = r.download(ctx)
	}
	if err != nil {
		return nil, err
	}

	draws, err := parseResultsPage(bytes.NewReader(body), r.config.RowSelector)
	if err != nil {
		return nil, shared.NewPermanentRemoteError(resultsPageServiceName, "FetchHistory", "unreadable results page", err)
	}

	sort.Slice(draws, func(i, j int) bool {
		return draws[i].SequenceNumber > draws[j].SequenceNumber
	})

	filtered := draws[:0]
	for _, draw := range draws {
		if draw.SequenceNumber > since {
			filtered = append(filtered, draw)
		}
	}
	if since <= 0 && len(filtered) > r.config.HistoryWindow {
		filtered = filtered[:r.config.HistoryWindow]
	}

	r.logger.WithFields(logrus.Fields{
		"since":    since,
		"parsed":   len(draws),
		"returned": len(filtered),
	}).Debug("Scraped results page")

	return filtered, nil
}

func (r *ResultsPageSource) download(ctx context.Context) ([]byte, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent("Mozilla/5.0 (compatible; lotto-backend/1.0)"),
	)
	c.SetRequestTimeout(r.config.HTTPTimeout)

	var (
		body       []byte
		statusCode int
		fetchErr   error
	)

	c.OnRequest(func(req *colly.Request) {
		req.Headers.Set("Accept", "text/html,application/xhtml+xml")
		r.logger.Debugf("Requesting %s %s", req.Method, req.URL)
	})

	c.OnResponse(func(resp *colly.Response) {
		statusCode = resp.StatusCode
		body = resp.Body
	})

	c.OnError(func(resp *colly.Response, err error) {
		fetchErr = err
		if resp != nil {
			statusCode = resp.StatusCode
			body = resp.Body
		}
	})

	visitErr := c.Visit(r.config.URL)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if fetchErr == nil {
		fetchErr = visitErr
	}

	if fetchErr != nil {
		if statusCode > 0 {
			return nil, shared.ClassifyHTTPStatus(resultsPageServiceName, "FetchHistory", statusCode, string(body))
		}
		return nil, shared.NewTransientRemoteError(resultsPageServiceName, "FetchHistory", "results page unreachable", fetchErr)
	}
	if statusCode < 200 || statusCode > 299 {
		return nil, shared.ClassifyHTTPStatus(resultsPageServiceName, "FetchHistory", statusCode, string(body))
	}
	return body, nil
}

// render loads the page in headless Chrome and returns the DOM once result rows are visible
func (r *ResultsPageSource) render(ctx context.Context) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (compatible; lotto-backend/1.0)"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, r.config.HTTPTimeout)
	defer cancelTimeout()

	start := time.Now()
	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(r.config.URL),
		chromedp.WaitVisible(r.config.RowSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, shared.NewTransientRemoteError(resultsPageServiceName, "FetchHistory", "results page did not render", err)
	}

	r.logger.WithFields(logrus.Fields{
		"url":      r.config.URL,
		"duration": time.Since(start),
		"bytes":    len(html),
	}).Debug("Rendered results page")

	return []byte(html), nil
}

// parseResultsPage reads one draw per row. Rows without a contest number are
// skipped; rows with the wrong count of numbers are still returned so the
// caller can reject and count them.
func parseResultsPage(page io.Reader, rowSelector string) ([]models.Draw, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var draws []models.Draw
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		concourse, err := strconv.Atoi(strings.Join(digitsPattern.FindAllString(cells.Eq(0).Text(), -1), ""))
		if err != nil || concourse <= 0 {
			return
		}

		draw := models.Draw{SequenceNumber: concourse}
		if date, err := models.ParseDrawDate(cells.Eq(1).Text()); err == nil {
			draw.OccurredOn = date
		}

		cells.Slice(2, cells.Length()).Each(func(_ int, cell *goquery.Selection) {
			for _, token := range digitsPattern.FindAllString(cell.Text(), -1) {
				if n, err := strconv.Atoi(token); err == nil {
					draw.Numbers = append(draw.Numbers, n)
				}
			}
		})

		draws = append(draws, draw)
	})

	return draws, nil
}
