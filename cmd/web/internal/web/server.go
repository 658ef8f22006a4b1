package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"thirdcoast.systems/mp3convert/cmd/web/handlers/api/convert_api"
	"thirdcoast.systems/mp3convert/cmd/web/handlers/api/fileserver"
	"thirdcoast.systems/mp3convert/internal/config"
)

type Webserver struct {
	*echo.Echo
	conf       *config.Config
	converter  convert_api.Converter
	fileServer *fileserver.FileServer
}

func NewWebserver(ctx context.Context, conf *config.Config, conv convert_api.Converter) (*Webserver, error) {
	e := echo.New()

	webserver := &Webserver{
		Echo:       e,
		conf:       conf,
		converter:  conv,
		fileServer: fileserver.NewFileServer(conf.DownloadsDir),
	}

	if len(conf.CORSAllowedOrigins) == 0 {
		slog.Info("CORS_ALLOWED_ORIGINS empty; cross-origin requests will be rejected")
	}

	if err := webserver.setupMiddleware(); err != nil {
		return nil, err
	}

	if err := webserver.registerRoutes(); err != nil {
		return nil, err
	}

	return webserver, nil
}

func (s *Webserver) setupMiddleware() error {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("2M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/healthz"
		},
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))
	s.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.conf.CORSAllowedOrigins,
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{convert_api.HeaderConversionID, echo.HeaderXRequestID},
		AllowCredentials: true,
	}))

	return nil
}

// convertRateLimiter throttles /convert per client IP. nil when disabled.
func (s *Webserver) convertRateLimiter() echo.MiddlewareFunc {
	if s.conf.RateLimitRPS <= 0 {
		return nil
	}
	burst := s.conf.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(s.conf.RateLimitRPS),
		Burst: burst,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, convert_api.ErrorResponse{Error: "rate limit exceeded"})
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, convert_api.ErrorResponse{Error: "unable to identify client"})
		},
	})
}

func (s *Webserver) registerRoutes() error {
	var convertMW []echo.MiddlewareFunc
	if rl := s.convertRateLimiter(); rl != nil {
		convertMW = append(convertMW, rl)
	}
	s.GET("/convert", convert_api.HandleConvert(s.converter), convertMW...)

	s.GET("/downloads/:filename", s.fileServer.HandleFile)

	// Health check
	s.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "ok")
	})

	return nil
}
