package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/countup/animator"
	"github.com/matt-g-everett/countup/config"
	"github.com/matt-g-everett/countup/display"
	"github.com/matt-g-everett/countup/easing"
	"github.com/matt-g-everett/countup/format"
	"github.com/matt-g-everett/countup/label"
)

type app struct {
	Config    config.Config
	Client    mqtt.Client
	Clock     *animator.TickerClock
	Formatter *format.Number
	Easing    easing.Func
	Tint      config.Tint
	Registry  *label.Registry
	Commands  *display.Commands
}

func newApp(cfg config.Config) (*app, error) {
	a := new(app)
	a.Config = cfg

	f, err := format.New(cfg.Format)
	if err != nil {
		return nil, err
	}
	a.Formatter = f

	a.Easing, err = easing.Lookup(cfg.Animation.Easing)
	if err != nil {
		return nil, err
	}

	a.Tint, err = cfg.Display.Tint()
	if err != nil {
		return nil, err
	}

	a.Clock = animator.NewTickerClock(cfg.Animation.FPS)
	a.Registry = label.NewRegistry()
	return a, nil
}

func (a *app) options(duration time.Duration, curve easing.Func) []label.Option {
	opts := []label.Option{
		label.WithClock(a.Clock),
		label.WithFormatter(a.Formatter),
		label.WithDuration(duration),
		label.WithEasingFunc(curve),
	}
	if a.Tint != nil {
		opts = append(opts, label.WithGradient(a.Tint))
	}
	return opts
}

func (a *app) commandOptions(cmd display.Command) []label.Option {
	duration := a.Config.Animation.Duration
	if cmd.Duration != 0 {
		duration = time.Duration(cmd.Duration * float64(time.Second))
	}
	curve := a.Easing
	if cmd.Easing != "" {
		f, err := easing.Lookup(cmd.Easing)
		if err != nil {
			log.Printf("Ignoring easing: %v", err)
		} else {
			curve = f
		}
	}
	return a.options(duration, curve)
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	if err := a.Commands.Subscribe(); err != nil {
		log.Printf("Subscribe to %s failed: %v", a.Config.Mqtt.Topics.Commands, err)
	}
}

// runTerminal animates once on stdout and returns when the target is shown.
func (a *app) runTerminal(ctx context.Context, from *float64, to float64) error {
	term := display.NewTerminal(os.Stdout)
	defer term.Close()
	if from != nil {
		term.SetText(a.Formatter.Format(*from))
	}

	id := a.Registry.Add(term)
	h, err := a.Registry.Animate(id, to, a.options(a.Config.Animation.Duration, a.Easing)...)
	if err != nil {
		return err
	}
	select {
	case <-h.Done():
	case <-ctx.Done():
		h.Cancel()
	}
	return nil
}

// runMQTT shows numbers on a remote display and animates to every target
// received on the command topic until ctx is done.
func (a *app) runMQTT(ctx context.Context, from *float64, to *float64) error {
	mqttCfg := a.Config.Mqtt
	options := mqtt.NewClientOptions().
		AddBroker(mqttCfg.URL).
		SetClientID(mqttCfg.ClientID).
		SetUsername(mqttCfg.Username).
		SetPassword(mqttCfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	screen := display.NewMQTTDisplay(a.Client, mqttCfg.Topics.Display, 0)
	id := a.Registry.Add(screen)
	defer a.Registry.Dispose(id)
	a.Commands = display.NewCommands(a.Client, mqttCfg.Topics.Commands)

	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	if from != nil {
		screen.SetText(a.Formatter.Format(*from))
	}
	if to != nil {
		if _, err := a.Registry.Animate(id, *to, a.options(a.Config.Animation.Duration, a.Easing)...); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-a.Commands.C:
			if _, err := a.Registry.Animate(id, cmd.To, a.commandOptions(cmd)...); err != nil {
				log.Printf("Animate to %v failed: %v", cmd.To, err)
			}
		}
	}
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "", "YAML config file.")
	to := flag.Float64("to", 0, "Value to animate to.")
	from := flag.Float64("from", 0, "Value to start from instead of the displayed value.")
	duration := flag.Duration("duration", 0, "Animation time, overrides the config.")
	curve := flag.String("easing", "", "Easing curve, overrides the config.")
	kind := flag.String("display", "", "Display kind: terminal or mqtt.")
	list := flag.Bool("list-easings", false, "List easing curve names and exit.")
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(easing.Names(), "\n"))
		return
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Read the config
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Reading config: %v", err)
		}
	}
	if set["duration"] {
		cfg.Animation.Duration = *duration
	}
	if *curve != "" {
		cfg.Animation.Easing = *curve
	}
	if *kind != "" {
		cfg.Display.Kind = *kind
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	a, err := newApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go a.Clock.Run(ctx)
	defer a.Clock.Stop()

	var start, target *float64
	if set["from"] {
		start = from
	}
	if set["to"] {
		target = to
	}

	switch cfg.Display.Kind {
	case config.MQTT:
		err = a.runMQTT(ctx, start, target)
	default:
		if target == nil {
			log.Fatal("-to is required for the terminal display")
		}
		err = a.runTerminal(ctx, start, *target)
	}
	if err != nil {
		log.Fatal(err)
	}
}
