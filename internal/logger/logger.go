package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	Log      *logrus.Logger
	fallback *logrus.Logger
	once     sync.Once
)

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// L возвращает инициализированный логгер или тихий логгер по умолчанию,
// чтобы пакеты можно было использовать в тестах без Init.
func L() *logrus.Logger {
	if Log != nil {
		return Log
	}
	once.Do(func() {
		fallback = logrus.New()
		fallback.SetOutput(io.Discard)
	})
	return fallback
}
