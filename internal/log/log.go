package log

import (
	"io"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Logger is the process-wide structured event log. Every line is one JSON
// object so the audit trail can be grepped and shipped as-is.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		FieldMap:        logrus.FieldMap{logrus.FieldKeyTime: "ts", logrus.FieldKeyMsg: "action"},
	})
	return l
}

// Init applies the configured level and optional extra sink.
func Init(level string, sinks ...io.Writer) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		Logger.Warnf("invalid log level %q, defaulting to info", level)
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)
	if len(sinks) > 0 {
		Logger.SetOutput(io.MultiWriter(append([]io.Writer{os.Stdout}, sinks...)...))
	}
}

// SetOutput redirects the event log; tests use it to capture entries.
func SetOutput(w io.Writer) { Logger.SetOutput(w) }

func entry(kind string, c *fiber.Ctx, fields map[string]any) *logrus.Entry {
	e := Logger.WithField("kind", kind)
	if c != nil {
		e = e.WithFields(logrus.Fields{
			"ip":     c.IP(),
			"method": c.Method(),
			"path":   c.Path(),
			"status": c.Response().StatusCode(),
		})
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.WithField("req_id", rid)
		}
		if uid, ok := c.Locals("userID").(string); ok && uid != "" {
			e = e.WithField("user_id", uid)
		}
	}
	if len(fields) > 0 {
		e = e.WithField("fields", fields)
	}
	return e
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	entry("info", c, fields).Info(action)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	entry("audit", c, fields).Info(action)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	entry("security", c, fields).Warn(action)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry("error", c, fields)
	if err != nil {
		e = e.WithField("err", err.Error())
	}
	e.Error(action)
}
