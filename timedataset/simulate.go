package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT returns n evenly spaced times ending one interval before the minute-truncated
// value of nowFunc.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// FormatT renders times the way callers send them, RFC 3339 in UTC.
func FormatT(t []time.Time) []string {
	out := make([]string, len(t))
	for i, tPnt := range t {
		out[i] = tPnt.UTC().Format(time.RFC3339)
	}
	return out
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// Set overwrites the value at index i
func (s Series) Set(i int, val float64) Series {
	s[i] = val
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateLinearY generates slope*i + bias for i in [0, n)
func GenerateLinearY(n int, slope, bias float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, slope*float64(i)+bias)
	}
	return Series(y)
}

// GenerateExpY generates scale*e^(rate*i) for i in [0, n)
func GenerateExpY(n int, scale, rate float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, scale*math.Exp(rate*float64(i)))
	}
	return Series(y)
}

// GenerateWaveY generates a sine wave over the sample index with the given period in samples.
func GenerateWaveY(n int, amp float64, period int, offset int) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, amp*math.Sin(2.0*math.Pi*float64(i+offset)/float64(period)))
	}
	return Series(y)
}

func GenerateNoise(n int, noiseScale float64, seed uint64) Series {
	r := rand.New(rand.NewPCG(seed, seed))
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, r.NormFloat64()*noiseScale)
	}
	return Series(y)
}
