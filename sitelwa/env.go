package sitelwa

import (
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment is implemented by embedding BaseEnvironment.
type Environment interface {
	port() int
	serviceName() string
	readinessCheckPath() string
	logLevel() zapcore.Level
	otelExporter() string
	awsRegion() string
	primaryRegion() string
}

// BaseEnvironment holds the variables every site Lambda needs.
type BaseEnvironment struct {
	Port               int           `env:"AWS_LWA_PORT,required"`
	ReadinessCheckPath string        `env:"AWS_LWA_READINESS_CHECK_PATH,required"`
	AWSRegion          string        `env:"AWS_REGION,required"`
	ServiceName        string        `env:"SITE_SERVICE_NAME,required"`
	PrimaryRegion      string        `env:"SITE_PRIMARY_REGION,required"`
	LogLevel           zapcore.Level `env:"SITE_LOG_LEVEL" envDefault:"info"`
	OtelExporter       string        `env:"SITE_OTEL_EXPORTER" envDefault:"stdout"`
}

func (e BaseEnvironment) port() int                  { return e.Port }
func (e BaseEnvironment) serviceName() string        { return e.ServiceName }
func (e BaseEnvironment) readinessCheckPath() string { return e.ReadinessCheckPath }
func (e BaseEnvironment) logLevel() zapcore.Level    { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string       { return e.OtelExporter }
func (e BaseEnvironment) awsRegion() string          { return e.AWSRegion }
func (e BaseEnvironment) primaryRegion() string      { return e.PrimaryRegion }

var _ Environment = BaseEnvironment{}

// ParseEnv returns an fx constructor that parses E from the process
// environment.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "parse environment")
		}
		return e, nil
	}
}
