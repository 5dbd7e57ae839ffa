package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/extractor"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment")
	}

	logger := newLogger()
	config := loadConfig()
	metrics := utils.NewMetrics()

	var fetcher utils.Fetcher = utils.NewHTTPClient(config, logger, metrics)
	if config.UseHeadlessBrowser {
		fetcher = utils.NewBrowserClient(config, logger)
		logger.Info("page fetching via headless browser")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	router.GET("/run-extract", runExtractHandler(config, logger, fetcher, metrics))

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	logger.Infof("listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

func runExtractHandler(config *types.Config, logger types.Logger, fetcher utils.Fetcher, metrics *utils.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		brand := c.DefaultQuery("brand", "adidas")
		category := c.DefaultQuery("category", "all")
		pages := -1
		if raw := c.Query("pages"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid pages value %q", raw)})
				return
			}
			pages = parsed
		}
		uploadToS3 := strings.EqualFold(c.Query("uploadToS3"), "true")

		runID := uuid.NewString()
		logger.Infof("run %s: brand=%s category=%s pages=%d uploadToS3=%t", runID, brand, category, pages, uploadToS3)

		shoes, _, err := extractor.New(config, logger, fetcher, metrics).Run(c.Request.Context(), brand, category, pages)
		if err != nil && len(shoes) == 0 {
			// Always 200: an unsupported brand is a structured error value,
			// not a transport failure.
			c.JSON(http.StatusOK, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			logger.Warnf("run %s: returning %d records despite error: %v", runID, len(shoes), err)
		}

		resp := gin.H{"extracted": shoes}

		if uploadToS3 {
			uploader, err := utils.NewS3UploaderFromEnv(c.Request.Context(), logger)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("s3 uploader: %v", err)})
				return
			}
			fileName := fmt.Sprintf("%s_extracted_%s.csv", strings.ToLower(brand), runID)
			key, err := uploader.Upload(c.Request.Context(), shoes, fileName)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("s3 upload: %v", err)})
				return
			}
			resp["s3_upload"] = "successful: " + key
		} else {
			out := filepath.Join(config.OutputDir, strings.ToLower(brand)+"_extracted.csv")
			if err := utils.WriteCSV(shoes, out); err != nil {
				logger.Errorf("run %s: local csv write: %v", runID, err)
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

func newLogger() types.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		l.SetLevel(level)
	}
	return l
}

func loadConfig() *types.Config {
	config := types.DefaultConfig()
	config.UseScraperProxy = envBool("USE_SCRAPER_PROXY")
	config.ScraperAPIKey = os.Getenv("SCRAPER_API_KEY")
	config.UseHeadlessBrowser = envBool("USE_HEADLESS_BROWSER")
	return config
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
