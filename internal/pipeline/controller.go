package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smazurov/rtmpencoder/internal/engine"
	"github.com/smazurov/rtmpencoder/internal/events"
)

// State represents the lifecycle state of a Controller.
type State string

// Controller states.
const (
	StateConstructing State = "constructing" // Graph being built
	StatePlaying      State = "playing"      // Graph running, bus loop active
	StateTerminating  State = "terminating"  // Terminal bus event received
	StateStopped      State = "stopped"      // Graph set to null
)

// DefaultGraphName names the graph when Config.Name is empty.
const DefaultGraphName = "pipeline"

var (
	// ErrAlreadyBuilt is returned when Build is called more than once.
	ErrAlreadyBuilt = errors.New("pipeline already built")
	// ErrNotBuilt is returned when Start is called before Build.
	ErrNotBuilt = errors.New("pipeline not built")
	// ErrRuntime marks a termination caused by a bus error.
	ErrRuntime = errors.New("pipeline runtime error")
)

// TerminationReason says why the bus loop ended.
type TerminationReason string

// Termination reasons.
const (
	TerminationEndOfStream TerminationReason = "end-of-stream"
	TerminationError       TerminationReason = "error"
)

// Termination describes the terminal bus event.
type Termination struct {
	Reason  TerminationReason
	Source  string
	Message string
	Debug   string
}

// Err returns nil for end-of-stream and an error wrapping ErrRuntime otherwise.
func (t Termination) Err() error {
	if t.Reason != TerminationError {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrRuntime, t.Source, t.Message)
}

// Config holds everything the controller needs to build the graph.
type Config struct {
	Name       string
	AudioURL   string
	OverlayURI string
	RTMPURL    string
	StreamKey  string
	Video      VideoParams
	Audio      AudioParams
}

// Publisher receives lifecycle events. *events.Bus satisfies it.
type Publisher interface {
	Publish(ev events.Event)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithEvents publishes lifecycle events to p.
func WithEvents(p Publisher) Option {
	return func(c *Controller) { c.events = p }
}

// Controller builds the encoder graph, runs it and tears it down.
// It is not safe for concurrent use.
type Controller struct {
	engine  engine.Engine
	cfg     Config
	logger  *slog.Logger
	events  Publisher
	factory *Factory
	graph   engine.Graph
	state   State
}

// NewController creates a controller in StateConstructing.
func NewController(eng engine.Engine, cfg Config, opts ...Option) *Controller {
	if cfg.Name == "" {
		cfg.Name = DefaultGraphName
	}
	c := &Controller{
		engine: eng,
		cfg:    cfg,
		logger: slog.Default(),
		state:  StateConstructing,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.factory = NewFactory(eng, c.logger)
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Graph returns the graph, or nil before Build.
func (c *Controller) Graph() engine.Graph {
	return c.graph
}

// Build creates the graph, every chain and every link between them.
func (c *Controller) Build() error {
	if c.graph != nil {
		return ErrAlreadyBuilt
	}
	started := time.Now()

	g, err := c.engine.NewGraph(c.cfg.Name)
	if err != nil {
		return fmt.Errorf("unable to create pipeline: %w", err)
	}
	c.graph = g

	venc, err := c.factory.BuildVideoEncoder(g, c.cfg.Video)
	if err != nil {
		return err
	}
	aenc, err := c.factory.BuildAudioEncoder(g, c.cfg.Audio)
	if err != nil {
		return err
	}
	out, err := c.factory.BuildOutput(g, c.cfg.RTMPURL, c.cfg.StreamKey)
	if err != nil {
		return err
	}

	vin, err := c.factory.BuildVideoInput(g, c.cfg.OverlayURI)
	if err != nil {
		return err
	}
	ain, err := c.factory.BuildAudioInput(g, c.cfg.AudioURL)
	if err != nil {
		return err
	}

	mixer, err := c.factory.NewNode("audiomixer")
	if err != nil {
		return err
	}
	clock, err := c.factory.NewNode("clockoverlay")
	if err != nil {
		return err
	}
	if err := g.Add(mixer, clock); err != nil {
		return fmt.Errorf("unable to add compositing elements: %w", err)
	}

	if err := g.Link(vin, clock, venc.Ingress); err != nil {
		return fmt.Errorf("unable to link video input: %w", err)
	}
	if err := g.Link(ain, mixer, aenc.Ingress); err != nil {
		return fmt.Errorf("unable to link audio input: %w", err)
	}
	if err := linkToPort(venc.Egress, out.VideoPort); err != nil {
		return fmt.Errorf("unable to link video encoder to muxer: %w", err)
	}
	if err := linkToPort(aenc.Egress, out.AudioPort); err != nil {
		return fmt.Errorf("unable to link audio encoder to muxer: %w", err)
	}

	elapsed := time.Since(started)
	c.logger.Info("Pipeline built", "pipeline", g.Name(), "nodes", c.factory.Created(), "duration", elapsed)
	c.publish(events.PipelineBuiltEvent{
		Pipeline:  g.Name(),
		Nodes:     c.factory.Created(),
		Duration:  elapsed,
		Timestamp: time.Now(),
	})
	return nil
}

func linkToPort(egress engine.Node, port engine.Port) error {
	src, err := egress.StaticPort("src")
	if err != nil {
		return err
	}
	return src.Link(port)
}

// Start sets the graph to Playing. A refused transition is a construction
// error and the bus is never read.
func (c *Controller) Start() error {
	if c.graph == nil {
		return ErrNotBuilt
	}
	if err := c.graph.SetState(engine.StatePlaying); err != nil {
		return fmt.Errorf("unable to set the pipeline to the playing state: %w", err)
	}
	c.setState(StatePlaying)
	c.logger.Info("Pipeline playing", "pipeline", c.graph.Name())
	return nil
}

// Wait blocks on the control bus until end-of-stream or an error.
func (c *Controller) Wait() Termination {
	bus := c.graph.Bus()
	for {
		ev := bus.Pop()
		c.publish(events.BusMessageEvent{
			Kind:      ev.Kind.String(),
			Source:    ev.Source,
			Message:   ev.Message,
			Timestamp: time.Now(),
		})

		switch ev.Kind {
		case engine.EventEndOfStream:
			c.logger.Info("End of stream", "source", ev.Source)
			c.setState(StateTerminating)
			return Termination{Reason: TerminationEndOfStream, Source: ev.Source}
		case engine.EventError:
			c.logger.Error("Pipeline error",
				"source", ev.Source,
				"error", ev.Message,
				"debug", ev.Debug)
			c.setState(StateTerminating)
			return Termination{
				Reason:  TerminationError,
				Source:  ev.Source,
				Message: ev.Message,
				Debug:   ev.Debug,
			}
		default:
			c.logger.Debug("Bus message", "type", ev.Type, "source", ev.Source)
		}
	}
}

// Stop sets the graph to Null. It is safe to call more than once and
// before Build.
func (c *Controller) Stop() error {
	if c.state == StateStopped {
		return nil
	}
	defer c.setState(StateStopped)
	if c.graph == nil {
		return nil
	}
	if err := c.graph.SetState(engine.StateNull); err != nil {
		return fmt.Errorf("unable to set the pipeline to the null state: %w", err)
	}
	c.logger.Debug("Pipeline stopped", "pipeline", c.graph.Name())
	return nil
}

// Run builds, starts and waits on the graph, then stops it. The returned
// error is non-nil only for construction or start failures; runtime
// failures are reported through the Termination.
func (c *Controller) Run() (Termination, error) {
	if err := c.Build(); err != nil {
		c.teardown()
		return Termination{}, err
	}
	if err := c.Start(); err != nil {
		c.teardown()
		return Termination{}, err
	}

	term := c.Wait()
	c.teardown()
	c.publish(events.PipelineTerminatedEvent{
		Pipeline:  c.cfg.Name,
		Reason:    string(term.Reason),
		Source:    term.Source,
		Timestamp: time.Now(),
	})
	return term, nil
}

func (c *Controller) teardown() {
	if err := c.Stop(); err != nil {
		c.logger.Warn("Failed to stop pipeline", "error", err)
	}
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	old := c.state
	c.state = s
	c.logger.Debug("State changed", "from", old, "to", s)
	c.publish(events.PipelineStateChangedEvent{
		Pipeline:  c.cfg.Name,
		From:      string(old),
		To:        string(s),
		Timestamp: time.Now(),
	})
}

func (c *Controller) publish(ev events.Event) {
	if c.events != nil {
		c.events.Publish(ev)
	}
}
