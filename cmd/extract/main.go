package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/extractor"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/utils"
)

func main() {
	brand := flag.String("brand", "adidas", "brand to extract: "+strings.Join(extractor.SupportedBrands(), ", "))
	category := flag.String("category", "all", "category path, or 'all' for every category")
	pages := flag.Int("pages", -1, "max pages per category, -1 for no cap")
	output := flag.String("output", "", "output CSV path (defaults under the output dir)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	config := types.DefaultConfig()
	config.UseScraperProxy = envBool("USE_SCRAPER_PROXY")
	config.ScraperAPIKey = os.Getenv("SCRAPER_API_KEY")
	config.UseHeadlessBrowser = envBool("USE_HEADLESS_BROWSER")

	metrics := utils.NewMetrics()
	var fetcher utils.Fetcher = utils.NewHTTPClient(config, logger, metrics)
	if config.UseHeadlessBrowser {
		fetcher = utils.NewBrowserClient(config, logger)
	}

	ctx := context.Background()
	start := time.Now()
	shoes, report, err := extractor.New(config, logger, fetcher, metrics).Run(ctx, *brand, *category, *pages)
	if err != nil && len(shoes) == 0 {
		logger.Errorf("extraction failed: %v", err)
		os.Exit(1)
	}
	if err != nil {
		logger.Warnf("partial extraction: %v", err)
	}

	out := *output
	if out == "" {
		out = filepath.Join(config.OutputDir, strings.ToLower(*brand)+"_extracted.csv")
	}
	if err := utils.WriteCSV(shoes, out); err != nil {
		logger.Errorf("write csv: %v", err)
		os.Exit(1)
	}

	fmt.Printf("extracted %d records to %s in %s (quality passed=%t, %d violations)\n",
		len(shoes), out, time.Since(start).Round(time.Millisecond), report.Passed, len(report.Violations))
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
