package glwindow

import (
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
)

// Bloom settings.
const (
	BloomThreshold = 0.24
	BloomStrength  = 0.75
	BloomRadius    = 0.22

	// BlurTaps is the number of weights on each side of the blur kernel,
	// the center included.
	BlurTaps = 9
)

// BlurWeights returns the one-sided gaussian kernel for a bloom radius in
// [0, 1]. The full two-sided kernel sums to one.
func BlurWeights(radius float64) [BlurTaps]float32 {
	radius = math.Max(0, math.Min(1, radius))
	sigma := 1 + radius*float64(BlurTaps)

	var w [BlurTaps]float64
	sum := 0.0

	for i := range w {
		w[i] = math.Exp(-float64(i*i) / (2 * sigma * sigma))

		if i == 0 {
			sum += w[i]
		} else {
			sum += 2 * w[i]
		}
	}

	var out [BlurTaps]float32
	for i := range w {
		out[i] = float32(w[i] / sum)
	}

	return out
}

// renderTarget is a framebuffer with one color texture.
type renderTarget struct {
	fbo, tex uint32
	w, h     int32
}

func newRenderTarget(w, h int32) (*renderTarget, error) {
	rt := &renderTarget{w: w, h: h}

	gl.GenFramebuffers(1, &rt.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.fbo)

	gl.GenTextures(1, &rt.tex)
	gl.BindTexture(gl.TEXTURE_2D, rt.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F, w, h, 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, rt.tex, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		rt.delete()
		return nil, errors.Errorf("framebuffer incomplete: 0x%x", status)
	}

	return rt, nil
}

func (rt *renderTarget) bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.fbo)
	gl.Viewport(0, 0, rt.w, rt.h)
}

func (rt *renderTarget) delete() {
	gl.DeleteTextures(1, &rt.tex)
	gl.DeleteFramebuffers(1, &rt.fbo)
}

// bloom renders the scene off screen, blurs what is bright enough and adds
// it back on top.
type bloom struct {
	scene *renderTarget
	ping  *renderTarget
	pong  *renderTarget

	highPass, blur, composite uint32

	quadVAO, quadVBO uint32

	uThreshold int32
	uDirection int32
	uWeights   int32
	uStrength  int32
	uHighTex   int32
	uBlurTex   int32
	uSceneTex  int32
	uBloomTex  int32

	weights [BlurTaps]float32
}

func newBloom(w, h int32) (b *bloom, err error) {
	b = &bloom{weights: BlurWeights(BloomRadius)}

	defer func() {
		if err != nil {
			b.delete()
			b = nil
		}
	}()

	if b.highPass, err = linkProgram(quadVertexShader, highPassFragmentShader); err != nil {
		return nil, errors.Wrap(err, "high pass")
	}

	if b.blur, err = linkProgram(quadVertexShader, blurFragmentShader); err != nil {
		return nil, errors.Wrap(err, "blur")
	}

	if b.composite, err = linkProgram(quadVertexShader, compositeFragmentShader); err != nil {
		return nil, errors.Wrap(err, "composite")
	}

	if b.scene, err = newRenderTarget(w, h); err != nil {
		return nil, err
	}

	// the blur runs at half size
	if b.ping, err = newRenderTarget(w/2, h/2); err != nil {
		return nil, err
	}

	if b.pong, err = newRenderTarget(w/2, h/2); err != nil {
		return nil, err
	}

	b.uThreshold = uniform(b.highPass, "uThreshold")
	b.uHighTex = uniform(b.highPass, "uTex")
	b.uDirection = uniform(b.blur, "uDirection")
	b.uWeights = uniform(b.blur, "uWeights")
	b.uBlurTex = uniform(b.blur, "uTex")
	b.uStrength = uniform(b.composite, "uStrength")
	b.uSceneTex = uniform(b.composite, "uScene")
	b.uBloomTex = uniform(b.composite, "uBloom")

	quad := [12]float32{
		-1, -1, 1, -1, 1, 1,
		-1, -1, 1, 1, -1, 1,
	}

	gl.GenVertexArrays(1, &b.quadVAO)
	gl.GenBuffers(1, &b.quadVBO)
	gl.BindVertexArray(b.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(&quad[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	return b, nil
}

// begin redirects drawing into the off screen scene target.
func (b *bloom) begin() {
	b.scene.bind()
}

// end draws the bloomed scene into the default framebuffer of size w by h.
func (b *bloom) end(w, h int32) {
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(b.quadVAO)
	gl.ActiveTexture(gl.TEXTURE0)

	b.ping.bind()
	gl.UseProgram(b.highPass)
	gl.Uniform1i(b.uHighTex, 0)
	gl.Uniform1f(b.uThreshold, BloomThreshold)
	gl.BindTexture(gl.TEXTURE_2D, b.scene.tex)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.UseProgram(b.blur)
	gl.Uniform1i(b.uBlurTex, 0)
	gl.Uniform1fv(b.uWeights, BlurTaps, &b.weights[0])

	b.pong.bind()
	gl.Uniform2f(b.uDirection, 1, 0)
	gl.BindTexture(gl.TEXTURE_2D, b.ping.tex)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	b.ping.bind()
	gl.Uniform2f(b.uDirection, 0, 1)
	gl.BindTexture(gl.TEXTURE_2D, b.pong.tex)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, w, h)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(b.composite)
	gl.Uniform1i(b.uSceneTex, 0)
	gl.Uniform1i(b.uBloomTex, 1)
	gl.Uniform1f(b.uStrength, BloomStrength)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.scene.tex)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, b.ping.tex)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(0)
}

func (b *bloom) delete() {
	for _, rt := range []*renderTarget{b.scene, b.ping, b.pong} {
		if rt != nil {
			rt.delete()
		}
	}

	for _, p := range []uint32{b.highPass, b.blur, b.composite} {
		if p != 0 {
			gl.DeleteProgram(p)
		}
	}

	gl.DeleteBuffers(1, &b.quadVBO)
	gl.DeleteVertexArrays(1, &b.quadVAO)
}
