package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/akmonengine/springmass"
	"github.com/akmonengine/springmass/actor"
	"github.com/akmonengine/springmass/config"
	"github.com/akmonengine/springmass/stream"
	"github.com/go-gl/mathgl/mgl64"
)

// buildCloth lays a size x size grid of particles above a box, linked by
// structural and shear springs, and pins two corners.
func buildCloth(system *springmass.System, cfg config.Config, size int, spacing float64) {
	handles := make([][]actor.Handle, size)
	for i := range handles {
		handles[i] = make([]actor.Handle, size)
		for j := range handles[i] {
			position := mgl64.Vec3{
				(float64(i) - float64(size-1)/2) * spacing,
				2,
				(float64(j) - float64(size-1)/2) * spacing,
			}
			pinned := j == 0 && (i == 0 || i == size-1)

			p := actor.NewParticle(position, cfg.Particle.Radius, cfg.Particle.Mass, !pinned)
			p.Material.Restitution = cfg.Particle.Restitution
			p.ExcludeSelfCollision = true
			handles[i][j] = system.AddParticle(p)
		}
	}

	link := func(a, b actor.Handle) {
		system.LinkParticles(a, b, cfg.Spring.Stiffness, cfg.Spring.Damping)
	}
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if i+1 < size {
				link(handles[i][j], handles[i+1][j])
			}
			if j+1 < size {
				link(handles[i][j], handles[i][j+1])
			}
			if i+1 < size && j+1 < size {
				link(handles[i][j], handles[i+1][j+1])
				link(handles[i+1][j], handles[i][j+1])
			}
		}
	}

	box := actor.NewStaticBox(actor.Transform{
		Position: mgl64.Vec3{0, 1, 0},
		Rotation: mgl64.QuatRotate(mgl64.DegToRad(20), mgl64.Vec3{0, 1, 0}),
		Scale:    mgl64.Vec3{1, 1, 1},
	}, mgl64.Vec3{0.5, 0.25, 0.5})
	system.AddConstraint(box)

	floor := float64(size) * spacing
	system.AddTriangleCollider(actor.NewStaticTriangle(
		mgl64.Vec3{-floor, 0, -floor}, mgl64.Vec3{-floor, 0, floor}, mgl64.Vec3{floor, 0, -floor}))
	system.AddTriangleCollider(actor.NewStaticTriangle(
		mgl64.Vec3{floor, 0, -floor}, mgl64.Vec3{-floor, 0, floor}, mgl64.Vec3{floor, 0, floor}))
}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	addr := flag.String("addr", "", "websocket listen address, overrides stream.addr")
	size := flag.Int("size", 16, "cloth resolution")
	duration := flag.Duration("duration", 0, "run duration, 0 runs until interrupted")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Stream.Addr = *addr
	}

	system := springmass.NewSystem(cfg)
	buildCloth(system, cfg, max(2, *size), 0.1)

	if cfg.Stream.Addr != "" {
		hub := stream.NewHub()
		defer hub.Close()
		system.Events.Subscribe(springmass.STEP, hub.Listener(cfg.Stream.Every))

		server := &http.Server{Addr: cfg.Stream.Addr, Handler: hub}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("stream server: %v", err)
			}
		}()
		defer server.Close()
	}

	contacts := 0
	system.Events.Subscribe(springmass.COLLISION_ENTER, func(event springmass.Event) {
		contacts++
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	driver := springmass.NewDriver(system, cfg.TickRate, cfg.TimeStep)
	if err := driver.Start(ctx); err != nil {
		log.Fatal(err)
	}
	<-ctx.Done()

	if err := driver.Stop(cfg.StopTimeout); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Completed %d steps (%d ticks dropped), %d particles, %d springs, %d contact pairs entered\n",
		driver.Steps(), driver.Dropped(), system.Particles.Len(), len(system.Springs), contacts)
}
