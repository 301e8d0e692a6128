package dedupe

import (
	"log/slog"

	"github.com/drpcorg/dedupe/utils"
)

const DefaultIndexName = "default"

type indexOptions struct {
	log     utils.Logger
	name    string
	metrics bool
}

func defaultIndexOptions() indexOptions {
	return indexOptions{
		log:     utils.NewDefaultLogger(slog.LevelWarn),
		name:    DefaultIndexName,
		metrics: true,
	}
}

type IndexOpt interface {
	Apply(*indexOptions)
}

type LoggerOpt struct {
	Logger utils.Logger
}

func (opt *LoggerOpt) Apply(o *indexOptions) {
	if opt.Logger != nil {
		o.log = opt.Logger
	}
}

// NameOpt sets the value of the "index" label on every metric series.
type NameOpt struct {
	Name string
}

func (opt *NameOpt) Apply(o *indexOptions) {
	if opt.Name != "" {
		o.name = opt.Name
	}
}

type MetricsOpt struct {
	Disabled bool
}

func (opt *MetricsOpt) Apply(o *indexOptions) {
	o.metrics = !opt.Disabled
}
