package executor

import (
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/gatewaylab/conform/pkg/models"
)

// Registry maps a wire format to its executor.
type Registry struct {
	executors map[models.WireFormat]Executor
}

// NewRegistry builds the default registry with all known formats sharing
// one HTTP client.
func NewRegistry(logger *zap.Logger, client *http.Client) *Registry {
	if client == nil {
		client = http.DefaultClient
	}
	r := &Registry{executors: map[models.WireFormat]Executor{}}
	r.Register(NewChatCompletions(logger, client))
	r.Register(NewResponses(logger, client))
	r.Register(NewAnthropic(logger, client))
	return r
}

func (r *Registry) Register(e Executor) {
	r.executors[e.Format()] = e
}

func (r *Registry) Get(format models.WireFormat) (Executor, bool) {
	e, ok := r.executors[format]
	return e, ok
}

func (r *Registry) Formats() []models.WireFormat {
	formats := make([]models.WireFormat, 0, len(r.executors))
	for f := range r.executors {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
