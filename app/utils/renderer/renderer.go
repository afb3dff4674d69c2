package renderer

import (
	"github.com/unrolled/render"
)

// New returns the JSON renderer shared by every handler.
func New(production bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    !production,
		UnEscapeHTML:  true,
		StreamingJSON: false,
	})
}
