package apierr

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// Response is the JSON error payload served by the /api endpoints.
type Response struct {
	Code      Code     `json:"code"`
	Message   string   `json:"message"`
	Retryable bool     `json:"retryable"`
	NextSteps []string `json:"next_steps,omitempty"`

	HTTPStatusCode int `json:"-"`
}

// Render implements render.Renderer.
func (rs *Response) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, rs.HTTPStatusCode)
	return nil
}

// ToResponse converts any error to a renderable payload. Catalog errors keep
// their code and status; everything else is reported as RENDER_FAILED.
func ToResponse(err error) *Response {
	var ce *Error
	if !errors.As(err, &ce) {
		ce = Wrap(RenderFailed, err)
	}
	msg := ce.Msg
	if msg == "" {
		msg = ce.Entry.Message
	}
	return &Response{
		Code:           ce.Entry.Code,
		Message:        msg,
		Retryable:      ce.Entry.Retryable,
		NextSteps:      ce.Entry.NextSteps,
		HTTPStatusCode: ce.Entry.Status,
	}
}
