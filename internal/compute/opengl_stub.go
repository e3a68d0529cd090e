//go:build !gui

package compute

// OpenGLBackend is unavailable in builds without the gui tag.
type OpenGLBackend struct{}

func NewOpenGLBackend() *OpenGLBackend {
	return &OpenGLBackend{}
}

func (c *OpenGLBackend) Name() string    { return "opengl (not available)" }
func (c *OpenGLBackend) Available() bool { return false }
func (c *OpenGLBackend) Cleanup()        {}

func (c *OpenGLBackend) Alloc(n int) (Buffer, error)           { return nil, ErrUnavailable }
func (c *OpenGLBackend) Compile(source string) (Kernel, error) { return nil, ErrUnavailable }
func (c *OpenGLBackend) Submit(passes []Pass) error            { return ErrUnavailable }

func (c *OpenGLBackend) BindStorage(b Buffer, binding uint32) bool { return false }
