// Package bot answers roll commands arriving from chat channels.
package bot

import (
	"errors"

	"github.com/vtmroll/vtmroll/pkg/command"
	"github.com/vtmroll/vtmroll/pkg/dice"
	"github.com/vtmroll/vtmroll/pkg/render"
)

// Reply is the answer to one triggered message.
type Reply struct {
	Content string
	// Result is nil when the command was rejected.
	Result *dice.Result
	// Err is command.ErrUsage or wraps command.ErrOutOfRange on rejection.
	Err error
}

// Rejection names why a command was not rolled, for logs and metrics.
func (r Reply) Rejection() string {
	switch {
	case r.Err == nil:
		return ""
	case errors.Is(r.Err, command.ErrOutOfRange):
		return "out_of_range"
	default:
		return "usage"
	}
}

// Handler turns message text into a reply. It holds no per-message state.
type Handler struct {
	parser    *command.Parser
	source    dice.Source
	renderers map[string]render.Renderer
	fallback  render.Renderer
}

func NewHandler(parser *command.Parser, source dice.Source) *Handler {
	return &Handler{
		parser: parser,
		source: source,
		renderers: map[string]render.Renderer{
			"telegram": render.HTML{},
		},
		fallback: render.Markdown{},
	}
}

// SetRenderer overrides the renderer used for a channel.
func (h *Handler) SetRenderer(channel string, r render.Renderer) {
	h.renderers[channel] = r
}

func (h *Handler) RendererFor(channel string) render.Renderer {
	if r, ok := h.renderers[channel]; ok {
		return r
	}
	return h.fallback
}

func (h *Handler) Triggered(text string) bool {
	return h.parser.Triggered(text)
}

// Handle returns false when text is not addressed to the bot.
func (h *Handler) Handle(channel, text string) (Reply, bool) {
	if !h.parser.Triggered(text) {
		return Reply{}, false
	}

	renderer := h.RendererFor(channel)
	req, err := h.parser.Parse(text)
	if err != nil {
		return Reply{Content: renderer.Error(h.parser.Prefix(), err), Err: err}, true
	}

	result := dice.Resolve(req, h.source)
	return Reply{Content: renderer.Result(result), Result: &result}, true
}
