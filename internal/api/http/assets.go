package http

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/config"
)

const indexDocument = "index.html"

// RegisterAssets installs exactly one front-end serving mode for the process:
// the built bundle in production, a proxy to the dev server otherwise.
func RegisterAssets(app *fiber.App, production bool, cfg config.AssetsConfig, logger *zap.Logger) error {
	if production {
		return registerStaticAssets(app, cfg.Dir, logger)
	}
	return registerDevProxy(app, cfg.DevServerURL, logger)
}

func registerStaticAssets(app *fiber.App, dir string, logger *zap.Logger) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve assets dir: %w", err)
	}
	index := filepath.Join(root, indexDocument)
	if _, err := os.Stat(index); err != nil {
		logger.Warn("asset bundle has no entry document", zap.String("path", index), zap.Error(err))
	}

	app.Static("/", root, fiber.Static{Index: indexDocument})
	app.Get("*", func(c *fiber.Ctx) error {
		return c.SendFile(index)
	})

	logger.Info("serving static assets", zap.String("dir", root))
	return nil
}

func registerDevProxy(app *fiber.App, target string, logger *zap.Logger) error {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid dev server url %q", target)
	}
	base := strings.TrimRight(u.String(), "/")

	app.Use(func(c *fiber.Ctx) error {
		if err := proxy.Do(c, base+c.OriginalURL()); err != nil {
			logger.Warn("dev server unreachable", zap.String("target", base), zap.Error(err))
			return fiber.NewError(fiber.StatusBadGateway, "Dev server unavailable")
		}
		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	})

	logger.Info("proxying assets to dev server", zap.String("target", base))
	return nil
}
