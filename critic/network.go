// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package critic provides the action-value function approximator: a small
feedforward network with sigmoid hidden layers and a linear output layer.

Training is split into accumulate / scale / step so that callers can build
their own minibatches: ClearGradient, then AccumulateGradient once per
sample against a target vector (squared error on every output), then
ScaleGradient (typically by 1 / batch size), then MoveAlongGradientRMS,
which applies one RMSProp step with momentum.  The network keeps its own
mean-square and momentum state across steps.

Weights and learning state are gonum matrices in float64; the float32
boundary is at Evaluate and AccumulateGradient.
*/
package critic

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"gonum.org/v1/gonum/mat"
)

// Layer holds the weights and learning state feeding one layer of units.
// Each row of Wts is one receiving unit: NIn sending weights followed by a bias.
type Layer struct {
	NIn       int           `desc:"number of sending units"`
	NOut      int           `desc:"number of units in this layer"`
	Linear    bool          `desc:"linear activation (output layer) instead of sigmoid"`
	Wts       *mat.Dense    `desc:"weights, NOut x (NIn+1), bias in the last column"`
	DWts      *mat.Dense    `view:"-" desc:"accumulated gradient, same shape as Wts"`
	MeanSq    *mat.Dense    `view:"-" desc:"running mean of squared gradient for RMSProp"`
	PrevDelta *mat.Dense    `view:"-" desc:"previous weight change for momentum"`
	Acts      *mat.VecDense `view:"-" desc:"activations from the last forward pass"`
	Errs      *mat.VecDense `view:"-" desc:"error derivatives from the last backward pass"`
	In        *mat.VecDense `view:"-" desc:"sending activations from the last forward pass, with a trailing 1 for the bias"`
	dact      *mat.VecDense
}

func (ly *Layer) build(nIn, nOut int, linear bool) {
	ly.NIn = nIn
	ly.NOut = nOut
	ly.Linear = linear
	ly.Wts = mat.NewDense(nOut, nIn+1, nil)
	ly.DWts = mat.NewDense(nOut, nIn+1, nil)
	ly.MeanSq = mat.NewDense(nOut, nIn+1, nil)
	ly.PrevDelta = mat.NewDense(nOut, nIn+1, nil)
	ly.Acts = mat.NewVecDense(nOut, nil)
	ly.Errs = mat.NewVecDense(nOut, nil)
	ly.In = mat.NewVecDense(nIn+1, nil)
	ly.In.SetVec(nIn, 1)
	ly.dact = mat.NewVecDense(nOut, nil)
}

// forward computes Acts from the values already in In.
func (ly *Layer) forward() {
	ly.Acts.MulVec(ly.Wts, ly.In)
	if ly.Linear {
		return
	}
	acts := ly.Acts.RawVector().Data
	dact := ly.dact.RawVector().Data
	for i, net := range acts {
		a := 1 / (1 + math.Exp(-net))
		acts[i] = a
		dact[i] = a * (1 - a)
	}
}

// Network is a feedforward sigmoid network with a linear output layer.
type Network struct {
	Params Params  `view:"inline" desc:"construction parameters"`
	NIn    int     `inactive:"+" desc:"number of inputs"`
	NOut   int     `inactive:"+" desc:"number of outputs"`
	Layers []Layer `desc:"hidden layers followed by the output layer"`
}

// New returns a new Network with nIn inputs, nOut outputs and weights
// drawn from p.WtInit using rng.
func New(nIn, nOut int, p *Params, rng *rand.Rand) (*Network, error) {
	nt := &Network{}
	if err := nt.Build(nIn, nOut, p); err != nil {
		return nil, err
	}
	nt.InitWts(rng)
	return nt, nil
}

// Build allocates the layers.  Weights are all zero until InitWts.
func (nt *Network) Build(nIn, nOut int, p *Params) error {
	if nIn < 1 || nOut < 1 {
		return fmt.Errorf("critic.Build: need at least 1 input and 1 output, got %d inputs, %d outputs", nIn, nOut)
	}
	if p.NHidden < 0 || (p.NHidden > 0 && p.HiddenSize < 1) {
		return fmt.Errorf("critic.Build: invalid hidden layers: %d x %d", p.NHidden, p.HiddenSize)
	}
	nt.Params = *p
	nt.NIn = nIn
	nt.NOut = nOut
	nt.Layers = make([]Layer, p.NHidden+1)
	sn := nIn
	for li := 0; li < p.NHidden; li++ {
		nt.Layers[li].build(sn, p.HiddenSize, false)
		sn = p.HiddenSize
	}
	nt.Layers[p.NHidden].build(sn, nOut, true)
	return nil
}

// InitWts draws all weights from the WtInit distribution and resets learning state.
func (nt *Network) InitWts(rng *rand.Rand) {
	for li := range nt.Layers {
		ly := &nt.Layers[li]
		ly.Wts.Apply(func(i, j int, v float64) float64 {
			return float64(nt.Params.GenWt(rng))
		}, ly.Wts)
		ly.DWts.Zero()
		ly.MeanSq.Zero()
		ly.PrevDelta.Zero()
	}
}

func (nt *Network) NumInputs() int  { return nt.NIn }
func (nt *Network) NumOutputs() int { return nt.NOut }

// NumWeights returns the total number of weights, including biases.
func (nt *Network) NumWeights() int {
	n := 0
	for li := range nt.Layers {
		r, c := nt.Layers[li].Wts.Dims()
		n += r * c
	}
	return n
}

// forward runs all layers on in and returns the output activations.
func (nt *Network) forward(in []float32) *mat.VecDense {
	fst := nt.Layers[0].In.RawVector().Data
	for i, x := range in[:nt.NIn] {
		fst[i] = float64(x)
	}
	for li := range nt.Layers {
		ly := &nt.Layers[li]
		if li > 0 {
			copy(ly.In.RawVector().Data, nt.Layers[li-1].Acts.RawVector().Data)
		}
		ly.forward()
	}
	return nt.Layers[len(nt.Layers)-1].Acts
}

// Evaluate computes the outputs for in, writing them into out.
func (nt *Network) Evaluate(in, out []float32) {
	for i, v := range nt.forward(in).RawVector().Data {
		out[i] = float32(v)
	}
}

// ClearGradient zeros the accumulated gradient.
func (nt *Network) ClearGradient() {
	for li := range nt.Layers {
		nt.Layers[li].DWts.Zero()
	}
}

// AccumulateGradient adds the gradient of the squared error between the
// outputs for in and target to the accumulator.  The accumulated value points
// downhill: adding it to the weights reduces the error.
func (nt *Network) AccumulateGradient(in, target []float32) {
	nt.forward(in)
	nl := len(nt.Layers)
	out := &nt.Layers[nl-1]
	errs := out.Errs.RawVector().Data
	for i, a := range out.Acts.RawVector().Data {
		errs[i] = float64(target[i]) - a
	}
	for li := nl - 1; li > 0; li-- {
		ly := &nt.Layers[li]
		below := &nt.Layers[li-1]
		below.Errs.MulVec(ly.Wts.Slice(0, ly.NOut, 0, ly.NIn).T(), ly.Errs)
		below.Errs.MulElemVec(below.Errs, below.dact)
	}
	for li := range nt.Layers {
		ly := &nt.Layers[li]
		ly.DWts.RankOne(ly.DWts, 1, ly.Errs, ly.In)
	}
}

// ScaleGradient multiplies the accumulated gradient by f.
func (nt *Network) ScaleGradient(f float32) {
	for li := range nt.Layers {
		ly := &nt.Layers[li]
		ly.DWts.Scale(float64(f), ly.DWts)
	}
}

// MoveAlongGradientRMS applies one RMSProp step with momentum using the
// accumulated gradient: MeanSq integrates the squared gradient at rate
// (1 - decay), and each weight moves by rate * g / sqrt(MeanSq) plus
// momentum times its previous change.
func (nt *Network) MoveAlongGradientRMS(decay, rate, momentum float32) {
	dc, rt, mo := float64(decay), float64(rate), float64(momentum)
	eps := float64(nt.Params.RMSEps)
	for li := range nt.Layers {
		ly := &nt.Layers[li]
		ly.MeanSq.Apply(func(i, j int, ms float64) float64 {
			g := ly.DWts.At(i, j)
			return dc*ms + (1-dc)*g*g
		}, ly.MeanSq)
		ly.PrevDelta.Apply(func(i, j int, pd float64) float64 {
			return rt*ly.DWts.At(i, j)/math.Sqrt(ly.MeanSq.At(i, j)+eps) + mo*pd
		}, ly.PrevDelta)
		ly.Wts.Add(ly.Wts, ly.PrevDelta)
	}
}

// CopyFrom copies weights and learning state from another network of identical shape.
func (nt *Network) CopyFrom(src *Network) {
	nt.Params = src.Params
	nt.NIn = src.NIn
	nt.NOut = src.NOut
	if len(nt.Layers) != len(src.Layers) {
		nt.Layers = make([]Layer, len(src.Layers))
	}
	for li := range src.Layers {
		sl := &src.Layers[li]
		ly := &nt.Layers[li]
		if ly.Wts == nil || ly.NIn != sl.NIn || ly.NOut != sl.NOut {
			ly.build(sl.NIn, sl.NOut, sl.Linear)
		}
		ly.Linear = sl.Linear
		ly.Wts.Copy(sl.Wts)
		ly.DWts.Copy(sl.DWts)
		ly.MeanSq.Copy(sl.MeanSq)
		ly.PrevDelta.Copy(sl.PrevDelta)
	}
}

// Clone returns a deep copy of the network.
func (nt *Network) Clone() *Network {
	cp := &Network{}
	cp.CopyFrom(nt)
	return cp
}

// SizeReport returns a string reporting the size of each layer and the
// total memory footprint of the weights and learning state.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	tot := 0
	fsz := int(unsafe.Sizeof(float64(0)))
	for li := range nt.Layers {
		ly := &nt.Layers[li]
		r, c := ly.Wts.Dims()
		mem := 4*r*c*fsz + (3*ly.NOut+ly.NIn+1)*fsz
		tot += mem
		fmt.Fprintf(&b, "%14s:\t In: %d\t Out: %d\t Wts: %d\t Mem: %v\n", fmt.Sprintf("Layer%d", li), ly.NIn, ly.NOut, r*c, (datasize.ByteSize)(mem).HumanReadable())
	}
	fmt.Fprintf(&b, "%14s:\t Wts: %d\t Mem: %v\n", "Critic", nt.NumWeights(), (datasize.ByteSize)(tot).HumanReadable())
	return b.String()
}
