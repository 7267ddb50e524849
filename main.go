package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"mengercraft/internal/camera"
	"mengercraft/internal/fractal"
	"mengercraft/internal/preview"
	"mengercraft/internal/render"
	"mengercraft/internal/skeleton"
)

const (
	title     = "Menger (OpenGL)"
	maxLevel  = 4
	boneSpeed = 0.05

	// radians per pixel when dragging a picked bone
	rotateScale = 0.02
	pickRadius  = 0.1
)

type config struct {
	level     int
	jerusalem bool
	width     int
	height    int
	snapshot  string
}

func parseFlags() config {
	var cfg config
	flag.IntVar(&cfg.level, "level", 1, "initial fractal level (1-4)")
	flag.BoolVar(&cfg.jerusalem, "jerusalem", false, "start with the Jerusalem cube instead of the Menger sponge")
	flag.IntVar(&cfg.width, "width", 800, "window width")
	flag.IntVar(&cfg.height, "height", 600, "window height")
	flag.StringVar(&cfg.snapshot, "snapshot", "", "write a wireframe PNG of the fractal to this path and exit")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()

	for _, st := range []fractal.Stencil{fractal.Menger, fractal.Jerusalem} {
		if err := st.Validate(); err != nil {
			log.Fatalln("invalid stencil:", err)
		}
	}

	sc, err := newScene(cfg)
	if err != nil {
		log.Fatalln("failed to build scene:", err)
	}

	if cfg.snapshot != "" {
		if err := writeSnapshot(cfg, sc); err != nil {
			log.Fatalln("snapshot:", err)
		}
		return
	}

	runtime.LockOSThread()
	if err := run(cfg, sc); err != nil {
		log.Fatalln(err)
	}
}

// scene is everything the render loop draws, independent of GL.
type scene struct {
	sponge    *fractal.Fractal
	jcube     *fractal.Fractal
	floor     *fractal.Floor
	jerusalem bool

	cam   *camera.Orbit
	light mgl32.Vec4

	rig      *skeleton.Skeleton
	selected int
	skin     [][]skeleton.Influence
}

func newScene(cfg config) (*scene, error) {
	rig, err := skeleton.New([]skeleton.BoneSpec{
		{Parent: -1, Position: mgl32.Vec3{1.5, -1, 0}, Endpoint: mgl32.Vec3{1.5, -0.2, 0}},
		{Parent: 0, Position: mgl32.Vec3{1.5, -0.2, 0}, Endpoint: mgl32.Vec3{1.5, 0.6, 0}},
		{Parent: 1, Position: mgl32.Vec3{1.5, 0.6, 0}, Endpoint: mgl32.Vec3{1.5, 1.2, 0}},
	})
	if err != nil {
		return nil, fmt.Errorf("demo rig: %w", err)
	}

	sc := &scene{
		sponge:    fractal.NewMengerSponge(1),
		jcube:     fractal.NewJerusalemCube(1),
		floor:     fractal.NewFloor(),
		jerusalem: cfg.jerusalem,
		cam:       camera.NewOrbit(mgl32.Vec3{}, 4),
		light:     mgl32.Vec4{-10, 10, -10, 1},
		rig:       rig,
		skin:      bindRibbon(rig),
		selected:  -1,
	}
	sc.hidden().Remove()
	sc.active().SetLevel(cfg.level)
	return sc, nil
}

// bindRibbon samples points beside the rig and weights each between the two
// nearest joints, so skinning visibly bends with the bones.
func bindRibbon(rig *skeleton.Skeleton) [][]skeleton.Influence {
	var verts [][]skeleton.Influence
	for i := range rig.Len() {
		b := rig.Bone(i)
		for step := range 4 {
			u := float32(step) / 4
			world := b.Position.Add(b.Endpoint.Sub(b.Position).Mul(u)).Add(mgl32.Vec3{0.15, 0, 0})
			infl := []skeleton.Influence{{Bone: i, Weight: 1 - u/2, Local: rig.Bind(i, world)}}
			if len(b.Children) > 0 {
				c := b.Children[0]
				infl = append(infl, skeleton.Influence{Bone: c, Weight: u / 2, Local: rig.Bind(c, world)})
			} else {
				infl[0].Weight = 1
			}
			verts = append(verts, infl)
		}
	}
	return verts
}

// toggle swaps the visible fractal, carrying the level over and dropping
// the hidden one's geometry.
func (sc *scene) toggle() {
	level := sc.active().Level()
	sc.active().Remove()
	sc.jerusalem = !sc.jerusalem
	sc.active().SetLevel(min(max(level, 1), maxLevel))
}

func (sc *scene) hidden() *fractal.Fractal {
	if sc.jerusalem {
		return sc.sponge
	}
	return sc.jcube
}

func (sc *scene) active() *fractal.Fractal {
	if sc.jerusalem {
		return sc.jcube
	}
	return sc.sponge
}

// ribbonLines joins consecutive ribbon samples into line index pairs.
func ribbonLines(n int) []uint32 {
	var lines []uint32
	for i := 1; i < n; i++ {
		lines = append(lines, uint32(i-1), uint32(i))
	}
	return lines
}

// ribbon skins the ribbon on the CPU and returns its segments as point pairs.
func (sc *scene) ribbon() []float32 {
	pts := sc.rig.Skin(sc.skin)
	var out []float32
	for _, i := range ribbonLines(len(sc.skin)) {
		out = append(out, pts[3*i:3*i+3]...)
	}
	return out
}

// hover highlights the bone under the cursor, or none.
func (sc *scene) hover(x, y float32, width, height int) {
	origin, dir := sc.cam.Ray(x, y, width, height)
	id, ok := sc.rig.Pick(origin, dir, pickRadius)
	if !ok {
		id = -1
	}
	sc.selected = id
}

// drag rotates the highlighted bone around the view direction, or orbits
// the camera when nothing is highlighted.
func (sc *scene) drag(dx, dy float32) {
	if sc.selected < 0 {
		sc.cam.Drag(dx, dy)
		return
	}
	sc.rig.Rotate(sc.selected, sc.cam.Forward(), -dx*rotateScale)
}

// selectedSegment is the joint/endpoint pair of the highlighted bone.
func (sc *scene) selectedSegment() []float32 {
	if sc.selected < 0 {
		return nil
	}
	return sc.rig.Segments()[6*sc.selected : 6*sc.selected+6]
}

func (sc *scene) onKey(key glfw.Key, action glfw.Action) {
	if action == glfw.Release {
		return
	}
	switch key {
	case glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4:
		sc.active().SetLevel(int(key-glfw.Key1) + 1)
	case glfw.Key0, glfw.KeyJ:
		sc.toggle()
	case glfw.KeyR:
		sc.active().SetLevel(1)
		sc.cam = camera.NewOrbit(mgl32.Vec3{}, 4)
	case glfw.KeyTab:
		sc.selected = (sc.selected + 1) % sc.rig.Len()
		log.Printf("selected bone %d", sc.selected)
	}
	if sc.selected < 0 {
		return
	}
	switch key {
	case glfw.KeyLeft:
		sc.rig.Rotate(sc.selected, sc.cam.Forward(), boneSpeed)
	case glfw.KeyRight:
		sc.rig.Rotate(sc.selected, sc.cam.Forward(), -boneSpeed)
	case glfw.KeyQ:
		sc.rig.Roll(sc.selected, boneSpeed, false)
	case glfw.KeyE:
		sc.rig.Roll(sc.selected, boneSpeed, true)
	}
}

func writeSnapshot(cfg config, sc *scene) error {
	img := image.NewRGBA(image.Rect(0, 0, cfg.width, cfg.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 95, 95, 255}), image.Point{}, draw.Src)

	vp := sc.cam.Projection(float32(cfg.width) / float32(cfg.height)).Mul4(sc.cam.View())
	edges := preview.Wireframe(img, sc.active(), vp, color.RGBA{255, 255, 0, 255})
	edges += preview.Lines(img, sc.rig.Segments(), vp, color.RGBA{0, 255, 0, 255})
	edges += preview.Lines(img, sc.ribbon(), vp, color.RGBA{255, 128, 0, 255})

	f, err := os.Create(cfg.snapshot)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", cfg.snapshot, err)
	}
	log.Printf("wrote %s: %d cubes, %d edges", cfg.snapshot, sc.active().CubeCount(), edges)
	return f.Close()
}

func run(cfg config, sc *scene) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.width, cfg.height, title, nil, nil)
	if err != nil {
		return err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return err
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Println("OpenGL version", version)

	meshProgram, err := render.NewProgram(render.MeshVertexShader, render.MeshFragmentShader)
	if err != nil {
		return err
	}
	defer meshProgram.Delete()
	floorProgram, err := render.NewProgram(render.FloorVertexShader, render.FloorFragmentShader)
	if err != nil {
		return err
	}
	defer floorProgram.Delete()
	lineProgram, err := render.NewProgram(render.LineVertexShader, render.LineFragmentShader)
	if err != nil {
		return err
	}
	defer lineProgram.Delete()
	skinProgram, err := render.NewProgram(render.SkinVertexShader, render.LineFragmentShader)
	if err != nil {
		return err
	}
	defer skinProgram.Delete()
	if sc.rig.Len() > render.MaxBones {
		return fmt.Errorf("rig has %d bones, the skinning shader takes %d", sc.rig.Len(), render.MaxBones)
	}

	spongeBufs := render.NewMeshBuffers(meshProgram, "vertPosition", "aNorm")
	defer spongeBufs.Delete()
	jcubeBufs := render.NewMeshBuffers(meshProgram, "vertPosition", "aNorm")
	defer jcubeBufs.Delete()
	floorBufs := render.NewMeshBuffers(floorProgram, "vertPosition", "aNorm")
	defer floorBufs.Delete()
	boneLines := render.NewLineBuffers(lineProgram, "vp")
	defer boneLines.Delete()
	pickLines := render.NewLineBuffers(lineProgram, "vp")
	defer pickLines.Delete()
	skinBufs := render.NewSkinBuffers(skinProgram, sc.skin, ribbonLines(len(sc.skin)))
	defer skinBufs.Delete()

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape {
			w.SetShouldClose(true)
			return
		}
		sc.onKey(key, action)
	})
	var lastX, lastY float64
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		dx, dy := float32(x-lastX), float32(y-lastY)
		lastX, lastY = x, y
		if w.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press {
			sc.drag(dx, dy)
			return
		}
		sc.hover(float32(x), float32(y), cfg.width, cfg.height)
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		sc.cam.Zoom(-float32(yoff) * 0.25)
	})

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.ClearColor(0.0, 0.37254903, 0.37254903, 1.0)

	aspect := float32(cfg.width) / float32(cfg.height)
	lastFpsTime := glfw.GetTime()
	frameCount := 0

	for !window.ShouldClose() {
		currentTime := glfw.GetTime()
		frameCount++
		if currentTime-lastFpsTime >= 1.0 {
			window.SetTitle(fmt.Sprintf("%s | level %d | FPS: %d", title, sc.active().Level(), frameCount))
			frameCount = 0
			lastFpsTime = currentTime
		}

		if sc.rig.Stale() {
			sc.rig.Recompute()
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		view := sc.cam.View()
		proj := sc.cam.Projection(aspect)

		bufs := spongeBufs
		if sc.jerusalem {
			bufs = jcubeBufs
		}
		bufs.Sync(sc.active())
		floorBufs.Sync(sc.floor)

		meshProgram.Use()
		meshProgram.SetMat4("mWorld", sc.active().ModelMatrix())
		meshProgram.SetMat4("mView", view)
		meshProgram.SetMat4("mProj", proj)
		meshProgram.SetVec4("lightPosition", sc.light)
		bufs.Draw()

		floorProgram.Use()
		floorProgram.SetMat4("mWorld", sc.floor.ModelMatrix())
		floorProgram.SetMat4("mView", view)
		floorProgram.SetMat4("mProj", proj)
		floorProgram.SetVec4("lightPosition", sc.light)
		floorBufs.Draw()

		boneLines.Update(sc.rig.Segments())
		pickLines.Update(sc.selectedSegment())
		lineProgram.Use()
		lineProgram.SetMat4("mvp", proj.Mul4(view))
		lineProgram.SetVec3("colour", mgl32.Vec3{0, 1, 0})
		boneLines.Draw()
		lineProgram.SetVec3("colour", mgl32.Vec3{0, 1, 1})
		pickLines.Draw()

		skinProgram.Use()
		skinProgram.SetMat4("mvp", proj.Mul4(view))
		skinProgram.SetMat4Array("D_mats", sc.rig.DMatrices())
		skinProgram.SetVec3("colour", mgl32.Vec3{1, 0.5, 0})
		skinBufs.Draw()

		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}
