package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"FractalViewer/display"
	"FractalViewer/fractal"
	"FractalViewer/link"
	"FractalViewer/misc"
	"FractalViewer/render"
	"FractalViewer/settings"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

//go:embed static
var static embed.FS

// Server serves rendered fractals over HTTP and interactive sessions over websockets.
type Server struct {
	address  string
	defaults settings.Settings
	listener net.Listener
	logger   bslogger.Logger
	mux      *http.ServeMux
	server   *http.Server

	WG *sync.WaitGroup
}

func NewServer(defaults settings.Settings) *Server {
	s := &Server{
		address:  defaults.ServerAddress,
		defaults: defaults,
		logger:   bslogger.NewLogger("Server", bslogger.Normal, nil),
		mux:      http.NewServeMux(),
		WG:       &sync.WaitGroup{},
	}

	staticFiles, err := fs.Sub(static, "static")
	misc.CheckError(err, s.logger, misc.Fatal)
	s.mux.Handle("/", http.FileServer(http.FS(staticFiles)))
	s.mux.HandleFunc("/render", s.handleRender)
	s.mux.HandleFunc("/ws", s.handleWebsocket)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr is the address the server listens on once Run returned.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.address
	}
	return s.listener.Addr().String()
}

func (s *Server) Run() error {
	var err error
	s.listener, err = net.Listen("tcp", s.address)
	if err != nil {
		s.logger.Errorf("Listening at address %s", s.address)
		return err
	}

	// Start the server until a stop signal is received
	s.server = &http.Server{Handler: s.mux, ReadHeaderTimeout: 5 * time.Second}
	s.WG.Add(1)
	go func() {
		if err := s.server.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("Error serving at address %s", s.Addr())
			s.logger.Fatal(err.Error())
		}
	}()

	s.logger.Infof("Running server at http://%s", s.Addr())
	return nil
}

func (s *Server) Stop() error {
	if err := s.server.Shutdown(context.Background()); err != nil {
		s.logger.Errorf("Shutting down server at address %s", s.Addr())
		return err
	}
	s.logger.Infof("Shutting down server at address %s", s.Addr())
	s.WG.Done()
	return nil
}

// handleRender answers GET /render with one PNG. The query uses the same keys as the coordinate link plus
// iters, color, axes, width, height and scale.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requested, err := settings.FromQuery(r.URL.Query(), s.defaults)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderer, err := requested.Renderer()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	startTime := time.Now()
	img := renderer.Render()
	var buf bytes.Buffer
	if err := display.EncodePNG(&buf, img, requested.Scale); err != nil {
		s.logger.Error(err.Error())
		http.Error(w, "unable to encode image", http.StatusInternalServerError)
		return
	}
	s.logger.Debugf("Rendered %s %s in %s", requested.Family, requested.Link().String(), time.Since(startTime))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Time", time.Since(startTime).String())
	w.Write(buf.Bytes())
}

// handleWebsocket runs one interactive session per connection. The query of the upgrade request selects the
// starting fractal the same way it does for /render.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	requested, err := settings.FromQuery(r.URL.Query(), s.defaults)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	renderer, err := requested.Renderer()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{r.Host},
	})
	if err != nil {
		s.logger.Warningf("Websocket upgrade from %s failed: %s", r.RemoteAddr, err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	conn := &connection{
		conn:     c,
		ctx:      ctx,
		settings: requested,
	}
	conn.session = render.NewSession(renderer, conn)
	s.logger.Infof("Session opened by %s", r.RemoteAddr)

	err = conn.serve(s.logger)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		s.logger.Infof("Session closed by %s", r.RemoteAddr)
	default:
		s.logger.Warningf("Session with %s ended: %s", r.RemoteAddr, err)
	}
}

type connection struct {
	conn     *websocket.Conn
	ctx      context.Context
	session  *render.Session
	settings settings.Settings
}

// Show sends a finished render to the client as one binary message.
func (c *connection) Show(img *image.RGBA) error {
	var buf bytes.Buffer
	if err := display.EncodePNG(&buf, img, c.settings.Scale); err != nil {
		return err
	}
	return c.conn.Write(c.ctx, websocket.MessageBinary, buf.Bytes())
}

// serve draws the first frame and then answers commands until the connection fails.
func (c *connection) serve(logger bslogger.Logger) error {
	err := c.session.Draw()
	if err := wsjson.Write(c.ctx, c.conn, newStatus(c.session, err)); err != nil {
		return err
	}

	for {
		var cmd Command
		if err := wsjson.Read(c.ctx, c.conn, &cmd); err != nil {
			return err
		}

		err := c.apply(cmd)
		misc.CheckError(err, logger, misc.Debug)
		if err := wsjson.Write(c.ctx, c.conn, newStatus(c.session, err)); err != nil {
			return err
		}
	}
}

func (c *connection) apply(cmd Command) error {
	switch cmd.Action {
	case ActionDraw:
		return c.session.Draw()
	case ActionZoom:
		level := cmd.Level
		if level == 0 {
			level = c.settings.ZoomLevel
		}
		return c.session.Zoom(level, cmd.X, cmd.Y)
	case ActionJulia:
		_, err := c.session.OpenJulia(cmd.X, cmd.Y)
		return err
	case ActionMandelbrot:
		return c.session.SwitchFamily(fractal.Mandelbrot, 0)
	case ActionOpen:
		l, err := link.ParseQuery(cmd.Query)
		if err != nil {
			return err
		}
		return c.session.Open(l)
	case ActionParams:
		values, err := url.ParseQuery(cmd.Query)
		if err != nil {
			return fmt.Errorf("unable to parse query %q - %w", cmd.Query, err)
		}
		next, err := settings.FromQuery(values, c.settings.WithParams(c.session.Renderer().Params()))
		if err != nil {
			return err
		}
		params, err := next.Params()
		if err != nil {
			return err
		}
		return c.session.Apply(params)
	case ActionReset:
		return c.session.Reset()
	case ActionResize:
		if cmd.Width > 0 && cmd.Height > 0 {
			if err := settings.CheckSize(cmd.Width, cmd.Height, c.settings.Scale); err != nil {
				return err
			}
		}
		return c.session.Resize(cmd.Width, cmd.Height)
	}
	return fmt.Errorf("unknown action %q", cmd.Action)
}

func linkOf(params fractal.Params) link.Link {
	return link.Link{Family: params.Family, Constant: params.Constant}
}
