// Command gbcore is a minimal SDL2 demo host: it drives a Machine at
// real-time speed, presenting its framebuffer in a window and its audio
// samples through an SDL audio device. It exists only to exercise the
// core end-to-end; windowing, audio output, and key mapping are host
// concerns explicitly out of scope for the core itself (spec.md §1).
package main

import (
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/tenfold-systems/dmgcore/internal/joypad"
	"github.com/tenfold-systems/dmgcore/internal/machine"
	"github.com/tenfold-systems/dmgcore/internal/ppu"
	"github.com/tenfold-systems/dmgcore/internal/romfile"
)

const (
	windowScale = 4
	sampleRate  = 44100
)

var shades = [4]uint32{0xFFFFFFFF, 0xFFAAAAAA, 0xFF555555, 0xFF000000}

func main() {
	log := logrus.New()
	if len(os.Args) < 2 {
		log.Fatal("usage: gbcore <rom-path>")
	}

	rom, err := romfile.Load(os.Args[1])
	if err != nil {
		log.Fatalf("loading rom: %v", err)
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		log.Fatalf("sdl init: %v", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("dmgcore", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		ppu.ScreenWidth*windowScale, ppu.ScreenHeight*windowScale, sdl.WINDOW_SHOWN)
	if err != nil {
		log.Fatalf("create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		log.Fatalf("create renderer: %v", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING,
		ppu.ScreenWidth, ppu.ScreenHeight)
	if err != nil {
		log.Fatalf("create texture: %v", err)
	}
	defer texture.Destroy()

	audioSpec := &sdl.AudioSpec{Freq: sampleRate, Format: sdl.AUDIO_F32, Channels: 2, Samples: 1024}
	audioDevice, err := sdl.OpenAudioDevice("", false, audioSpec, nil, 0)
	if err != nil {
		log.Fatalf("open audio device: %v", err)
	}
	defer sdl.CloseAudioDevice(audioDevice)
	sdl.PauseAudioDevice(audioDevice, false)

	onSample := func(left, right float32) {
		buf := []float32{left, right}
		sdl.QueueAudio(audioDevice, f32SliceToBytes(buf))
	}

	m := machine.New(sampleRate, onSample, nil)
	if err := m.LoadROM(rom); err != nil {
		log.Fatalf("loading rom: %v", err)
	}

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				handleKey(m, e)
			}
		}

		if _, err := m.RunUntilFrame(); err != nil {
			log.Errorf("core halted: %v", err)
			running = false
			continue
		}

		presentFrame(texture, renderer, m.Framebuffer())
	}
}

func presentFrame(texture *sdl.Texture, renderer *sdl.Renderer, fb *[ppu.ScreenHeight][ppu.ScreenWidth]uint8) {
	pixels := make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4)
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			c := shades[fb[y][x]]
			off := (y*ppu.ScreenWidth + x) * 4
			pixels[off] = byte(c)
			pixels[off+1] = byte(c >> 8)
			pixels[off+2] = byte(c >> 16)
			pixels[off+3] = byte(c >> 24)
		}
	}
	texture.Update(nil, pixels, ppu.ScreenWidth*4)
	renderer.Clear()
	renderer.Copy(texture, nil, nil)
	renderer.Present()
}

func handleKey(m *machine.Machine, e *sdl.KeyboardEvent) {
	btn, ok := keyToButton(e.Keysym.Sym)
	if !ok {
		return
	}
	if e.Type == sdl.KEYDOWN {
		m.ApplyInput(joypad.Inputs{Pressed: []joypad.Button{btn}})
	} else if e.Type == sdl.KEYUP {
		m.ApplyInput(joypad.Inputs{Released: []joypad.Button{btn}})
	}
}

func keyToButton(key sdl.Keycode) (joypad.Button, bool) {
	switch key {
	case sdl.K_z:
		return joypad.ButtonA, true
	case sdl.K_x:
		return joypad.ButtonB, true
	case sdl.K_RETURN:
		return joypad.ButtonStart, true
	case sdl.K_RSHIFT, sdl.K_LSHIFT:
		return joypad.ButtonSelect, true
	case sdl.K_UP:
		return joypad.ButtonUp, true
	case sdl.K_DOWN:
		return joypad.ButtonDown, true
	case sdl.K_LEFT:
		return joypad.ButtonLeft, true
	case sdl.K_RIGHT:
		return joypad.ButtonRight, true
	}
	return 0, false
}

func f32SliceToBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		bits := math.Float32bits(s)
		out[i*4] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}
