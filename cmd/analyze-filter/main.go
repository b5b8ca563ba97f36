// Command analyze-filter prints the band-limiting kernel used by the
// oversampler for a given factor and window, with its DC gain and
// magnitude response at the oversampled rate.
//
// Usage:
//
//	analyze-filter -factor 4
//	analyze-filter -factor 8 -window kaiser -points 32 -coeffs
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-audio-oversampler/internal/engine"
	"github.com/tphakala/go-audio-oversampler/internal/filter"
)

const (
	defaultFactor = 4
	defaultPoints = 24

	// Display limits
	stopbandStart = 2.0 // Stopband measured from this multiple of the cutoff
	halfPowerDB   = -3.0
)

func main() {
	factor := flag.Int("factor", defaultFactor, "Oversampling factor")
	windowName := flag.String("window", "hamming", "Kernel window: hamming, kaiser")
	points := flag.Int("points", defaultPoints, "Number of response points to print")
	coeffs := flag.Bool("coeffs", false, "Print kernel coefficients")
	flag.Parse()

	if *points < 1 {
		log.Fatalf("points must be at least 1, got %d", *points)
	}

	window, err := filter.ParseWindow(*windowName)
	if err != nil {
		log.Fatal(err)
	}

	kernel, err := filter.DesignSincLowPass(engine.TransitionBandwidth, *factor, window)
	if err != nil {
		log.Fatal(err)
	}

	cutoff := 0.5 / float64(*factor)
	padding := len(kernel) - 1

	fmt.Println("=== Oversampling Kernel ===")
	fmt.Printf("  Factor:        %d\n", *factor)
	fmt.Printf("  Window:        %s\n", window)
	fmt.Printf("  Taps:          %d\n", len(kernel))
	fmt.Printf("  Cutoff:        %.5f cycles/sample (oversampled rate)\n", cutoff)
	fmt.Printf("  DC gain:       %.12f\n", floats.Sum(kernel))
	fmt.Printf("  Latency:       %d base-rate samples (%d oversampled)\n", padding / *factor, padding)

	response := filter.ComputeFrequencyResponse(kernel, *points*(*factor))
	var halfPower float64
	worstStop := -1000.0
	for i, f := range response.Frequencies {
		db := filter.MagnitudeDB(response.Magnitude[i])
		if halfPower == 0 && db < halfPowerDB {
			halfPower = f
		}
		if f >= stopbandStart*cutoff {
			worstStop = max(worstStop, db)
		}
	}
	fmt.Printf("  -3 dB point:   %.5f\n", halfPower)
	fmt.Printf("  Stopband peak: %.1f dB (above %.4f)\n", worstStop, stopbandStart*cutoff)

	fmt.Println("\n=== Magnitude Response ===")
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "freq\tbase-rate freq\tmagnitude\tdB\t")
	step := max(1, len(response.Frequencies) / *points)
	for i := 0; i < len(response.Frequencies); i += step {
		f := response.Frequencies[i]
		fmt.Fprintf(tw, "%.4f\t%.4f\t%.6f\t%.2f\t\n",
			f, f*float64(*factor), response.Magnitude[i], filter.MagnitudeDB(response.Magnitude[i]))
	}
	_ = tw.Flush()

	if *coeffs {
		fmt.Println("\n=== Coefficients ===")
		for i, c := range kernel {
			fmt.Printf("  h[%2d] = % .12e\n", i, c)
		}
	}
}
