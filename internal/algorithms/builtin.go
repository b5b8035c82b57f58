package algorithms

import (
	"filterlab/internal/filters"
	"filterlab/internal/kernel"
)

func builtins() []Descriptor {
	return []Descriptor{
		{
			Name:        "invert",
			Description: "Replace every channel with 255 minus its value",
			Build:       constant(filters.Invert{}),
		},
		{
			Name:        "grayscale",
			Description: "Broadcast the luminance to all channels",
			Build:       constant(filters.Grayscale{}),
		},
		{
			Name:        "sepia",
			Description: "Tint the luminance towards brown",
			Defaults:    Parameters{"depth": float64(filters.DefaultSepiaDepth)},
			Build: func(p Parameters, _ *kernel.StructuringElement) (filters.Operator, error) {
				depth, err := p.Float("depth")
				if err != nil {
					return nil, err
				}
				return filters.NewSepia(depth), nil
			},
		},
		{
			Name:        "brightness",
			Description: "Add a signed delta to every channel",
			Defaults:    Parameters{"delta": filters.DefaultBrightnessStep},
			Build:       brightness,
		},
		{
			Name:        "brightness-up",
			Description: "Brighten by the default step",
			Defaults:    Parameters{"delta": filters.DefaultBrightnessStep},
			Build:       brightness,
		},
		{
			Name:        "brightness-down",
			Description: "Darken by the default step",
			Defaults:    Parameters{"delta": -filters.DefaultBrightnessStep},
			Build:       brightness,
		},
		{
			Name:        "shift",
			Description: "Move the image left, filling the right edge with black",
			Defaults:    Parameters{"offset": filters.DefaultShiftOffset},
			Build: func(p Parameters, _ *kernel.StructuringElement) (filters.Operator, error) {
				offset, err := p.Int("offset")
				if err != nil {
					return nil, err
				}
				return filters.NewShift(offset), nil
			},
		},
		{
			Name:        "spin",
			Description: "Rotate about the image center",
			Defaults:    Parameters{"angle": filters.DefaultSpinAngle},
			Build: func(p Parameters, _ *kernel.StructuringElement) (filters.Operator, error) {
				angle, err := p.Float("angle")
				if err != nil {
					return nil, err
				}
				return filters.NewSpin(angle), nil
			},
		},
		{
			Name:        "convolution",
			Description: "Convolve with a custom kernel",
			Defaults:    Parameters{"kernel": [][]float64{{1}}},
			Build: func(p Parameters, _ *kernel.StructuringElement) (filters.Operator, error) {
				rows, err := p.Matrix("kernel")
				if err != nil {
					return nil, err
				}
				k, err := kernel.New(rows)
				if err != nil {
					return nil, err
				}
				return filters.NewConvolution(k)
			},
		},
		{
			Name:        "blur",
			Description: "Uniform box blur",
			Defaults:    Parameters{"size": 3},
			Build: func(p Parameters, _ *kernel.StructuringElement) (filters.Operator, error) {
				size, err := p.Int("size")
				if err != nil {
					return nil, err
				}
				return filters.NewBlur(size)
			},
		},
		{
			Name:        "gaussian",
			Description: "Gaussian blur",
			Defaults:    Parameters{"radius": 3, "sigma": 2.0},
			Build: func(p Parameters, _ *kernel.StructuringElement) (filters.Operator, error) {
				rad, err := p.Int("radius")
				if err != nil {
					return nil, err
				}
				sigma, err := p.Float("sigma")
				if err != nil {
					return nil, err
				}
				return filters.NewGaussian(rad, sigma)
			},
		},
		{
			Name:        "sharpen",
			Description: "Sharpen edges",
			Build:       constant(filters.NewSharpen()),
		},
		{
			Name:        "emboss",
			Description: "Stamp effect",
			Build:       constant(filters.NewEmboss()),
		},
		{
			Name:        "median",
			Description: "Order-statistic noise filter",
			Defaults:    Parameters{"size": filters.DefaultMedianSize, "policy": filters.MedianPerChannel.String()},
			Build: func(p Parameters, _ *kernel.StructuringElement) (filters.Operator, error) {
				size, err := p.Int("size")
				if err != nil {
					return nil, err
				}
				name, err := p.Text("policy")
				if err != nil {
					return nil, err
				}
				policy, err := filters.ParseMedianPolicy(name)
				if err != nil {
					return nil, err
				}
				return filters.NewMedian(size, policy)
			},
		},
		{
			Name:        "linear-stretch",
			Description: "Stretch the darkest and brightest pixels to the full range",
			Build:       constant(filters.LinearStretch{}),
		},
		{
			Name:        "gray-world",
			Description: "Balance the channel means",
			Build:       constant(filters.GrayWorld{}),
		},
		morphologyEntry("erosion", "Per-channel minimum over the structuring element",
			func(se *kernel.StructuringElement) (filters.Operator, error) { return filters.NewErosion(se) }),
		morphologyEntry("dilation", "Per-channel maximum over the structuring element",
			func(se *kernel.StructuringElement) (filters.Operator, error) { return filters.NewDilation(se) }),
		morphologyEntry("gradient", "Dilation minus erosion",
			func(se *kernel.StructuringElement) (filters.Operator, error) { return filters.NewGradient(se) }),
		morphologyEntry("opening", "Erosion followed by dilation",
			func(se *kernel.StructuringElement) (filters.Operator, error) { return filters.NewOpening(se) }),
		morphologyEntry("closing", "Dilation followed by erosion",
			func(se *kernel.StructuringElement) (filters.Operator, error) { return filters.NewClosing(se) }),
	}
}

func constant(op filters.Operator) BuildFunc {
	return func(Parameters, *kernel.StructuringElement) (filters.Operator, error) {
		return op, nil
	}
}

func brightness(p Parameters, _ *kernel.StructuringElement) (filters.Operator, error) {
	delta, err := p.Int("delta")
	if err != nil {
		return nil, err
	}
	return filters.NewBrightness(delta), nil
}

// morphologyEntry uses the manager's structuring element unless the parameters carry their own
// "structuring_element" 0/1 matrix.
func morphologyEntry(name, description string, build func(*kernel.StructuringElement) (filters.Operator, error)) Descriptor {
	return Descriptor{
		Name:        name,
		Description: description,
		Build: func(p Parameters, se *kernel.StructuringElement) (filters.Operator, error) {
			if p.Has("structuring_element") {
				rows, err := p.Matrix("structuring_element")
				if err != nil {
					return nil, err
				}
				cells := make([][]int, len(rows))
				for i, row := range rows {
					cells[i] = make([]int, len(row))
					for j, v := range row {
						cells[i][j] = int(v)
					}
				}
				if se, err = kernel.FromMatrix(cells); err != nil {
					return nil, err
				}
			}
			return build(se)
		},
	}
}
