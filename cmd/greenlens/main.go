// Command greenlens submits a product photo to the analysis relay and
// prints the sustainability assessment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/greenlens/greenlens/pkg/client"
)

func main() {
	var (
		server  = flag.String("server", "http://localhost:8080", "Relay base URL")
		image   = flag.String("image", "", "Path to the product photo")
		prompt  = flag.String("prompt", "", "Optional analysis prompt")
		status  = flag.Bool("status", false, "Print relay status and exit")
		timeout = flag.Duration("timeout", 90*time.Second, "Request timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	relay := client.New(*server)

	if *status {
		st, err := relay.Status(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "status check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Status:           %s\n", st.Status)
		fmt.Printf("Model configured: %v\n", st.ModelConfigured)
		fmt.Printf("Quality check:    %v\n", st.Features.QualityCheck)
		fmt.Printf("Optimization:     %v\n", st.Features.Optimization)
		fmt.Printf("Alternatives:     %v\n", st.Features.Alternatives)
		return
	}

	if *image == "" {
		fmt.Fprintln(os.Stderr, "usage: greenlens -image <path> [-prompt <text>] [-server <url>]")
		os.Exit(2)
	}

	result, err := relay.AnalyzeFile(ctx, *image, *prompt)
	if err != nil {
		var analysisErr *client.AnalysisError
		if errors.As(err, &analysisErr) {
			fmt.Fprintf(os.Stderr, "analysis failed: %s\n", analysisErr.Message)
			if analysisErr.Details != "" {
				fmt.Fprintf(os.Stderr, "  %s\n", analysisErr.Details)
			}
			for _, s := range analysisErr.Suggestions {
				fmt.Fprintf(os.Stderr, "  - %s\n", s)
			}
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	a := result.Analysis
	fmt.Printf("Product:              %s\n", a.ProductName)
	fmt.Printf("Sustainability score: %d/100\n", a.SustainabilityScore)
	fmt.Printf("Confidence:           %d%%\n", a.Confidence)
	if len(a.EcoLabels) > 0 {
		fmt.Printf("Eco labels:           %v\n", a.EcoLabels)
	}
	fmt.Printf("Recyclability:        %s\n", a.Recyclability)
	fmt.Printf("Carbon footprint:     %s\n", a.CarbonFootprint)
	fmt.Printf("Water footprint:      %s\n", a.WaterFootprint)
	fmt.Printf("Materials:            %s\n", a.MaterialComposition)
	fmt.Printf("Lifespan:             %s\n", a.Lifespan)
	fmt.Printf("Energy production:    %s\n", a.EnergyProduction)

	fmt.Println("\nGreener alternatives:")
	for _, alt := range a.Alternatives {
		if alt.Score != nil {
			fmt.Printf("  %s (score %d)\n", alt.Name, *alt.Score)
		} else {
			fmt.Printf("  %s\n", alt.Name)
		}
		fmt.Printf("    %s\n", alt.Description)
		for _, link := range alt.PlatformLinks {
			fmt.Printf("    %s: %s\n", link.DisplayName, link.URL)
		}
	}

	if result.ImageQuality != nil && len(result.ImageQuality.Warnings) > 0 {
		fmt.Println("\nImage quality notes:")
		for _, w := range result.ImageQuality.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
