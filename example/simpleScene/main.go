package main

import (
	"fmt"

	"github.com/akmonengine/slide"
	"github.com/akmonengine/slide/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	LAYER_WORLD  uint32 = 1 << 0
	LAYER_PLAYER uint32 = 1 << 1
)

// ContactPrinter prints every contact event
type ContactPrinter struct{}

func (p ContactPrinter) Print(event slide.Event) {
	switch e := event.(type) {
	case slide.ContactEnterEvent:
		fmt.Printf("   -> enter  %v normal=%v\n", e.Other.Global(), e.Normal)
	case slide.ContactStayEvent:
		fmt.Printf("   .. stay   %v normal=%v\n", e.Other.Global(), e.Normal)
	case slide.ContactExitEvent:
		fmt.Printf("   <- exit   %v\n", e.Other.Global())
	}
}

// SetupScene creates a concave corner made of a floor and a wall, and a body
// falling diagonally into it
func SetupScene() (*slide.World, *slide.Body) {
	world := slide.NewWorld(nil)

	floor, err := actor.NewBox(0, 0, 200, 10, LAYER_WORLD, 0)
	if err != nil {
		panic(err)
	}
	wall, err := actor.NewBox(100, 10, 10, 100, LAYER_WORLD, 0)
	if err != nil {
		panic(err)
	}
	world.AddStatic(floor)
	world.AddStatic(wall)

	body, err := slide.NewBody(40, 60, 12, 8, LAYER_PLAYER, LAYER_WORLD)
	if err != nil {
		panic(err)
	}
	body.Velocity = mgl64.Vec2{120, -90}
	world.AddBody(body)

	// A sensor hanging under the body follows it without being swept itself
	sensor, err := actor.NewBox(0, -2, 12, 2, 0, 0)
	if err != nil {
		panic(err)
	}
	if err := sensor.SetParent(&body.Transform); err != nil {
		panic(err)
	}
	world.AddStatic(sensor)

	printer := ContactPrinter{}
	world.Events.Subscribe(slide.CONTACT_ENTER, printer.Print)
	world.Events.Subscribe(slide.CONTACT_STAY, printer.Print)
	world.Events.Subscribe(slide.CONTACT_EXIT, printer.Print)

	return world, body
}

func main() {
	world, body := SetupScene()

	fmt.Println("🎬 Starting simulation")
	for i := range 60 {
		world.Step(slide.DEFAULT_TIMESTEP)
		if i%10 == 9 {
			fmt.Printf("Step %2d: body at %v\n", i+1, body.Global())
		}
	}
	fmt.Printf("✅ Final position %v, checksum %016x\n", body.Global(), world.Checksum())
}
