// Command route-preview fetches a route and prints the guidance instructions
// as a table, for checking what the shell would speak without running the
// full backend.
//
// Usage:
//
//	route-preview -from "52.52,13.405" -to "52.5163,13.3777" [-profile driving] [-speak]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/flickmobile/navigation-backend/internal/guidance"
	"github.com/flickmobile/navigation-backend/pkg/routing"
	"github.com/flickmobile/navigation-backend/pkg/validator"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

func main() {
	var (
		fromFlag     = flag.String("from", "", "origin coordinate as \"lat,lon\"")
		toFlag       = flag.String("to", "", "destination coordinate as \"lat,lon\"")
		profileFlag  = flag.String("profile", "driving", "travel profile: driving, walking, cycling")
		providerFlag = flag.String("provider", "osrm", "routing provider: osrm or google")
		baseURLFlag  = flag.String("osrm-url", "https://router.project-osrm.org", "OSRM server base URL")
		speakFlag    = flag.Bool("speak", false, "print spoken instructions only, one per line")
	)
	flag.Parse()

	coordValidator := validator.NewCoordinateValidator()

	fromLat, fromLon, err := coordValidator.Validate(*fromFlag)
	if err != nil {
		log.Fatalf("Invalid -from coordinate: %v", err)
	}

	toLat, toLon, err := coordValidator.Validate(*toFlag)
	if err != nil {
		log.Fatalf("Invalid -to coordinate: %v", err)
	}

	provider, err := buildProvider(*providerFlag, *baseURLFlag)
	if err != nil {
		log.Fatalf("Failed to create routing provider: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	route, err := provider.GetRoute(
		ctx,
		routing.Point{Latitude: fromLat, Longitude: fromLon},
		routing.Point{Latitude: toLat, Longitude: toLon},
		*profileFlag,
	)
	if err != nil {
		log.Fatalf("Route fetch failed: %v", err)
	}

	steps := route.Steps()

	if *speakFlag {
		for _, step := range steps {
			fmt.Println(guidance.SpokenInstruction(step))
		}
		return
	}

	printRouteTable(route, steps, provider.Name(), *profileFlag)
}

func buildProvider(name, osrmBaseURL string) (routing.Provider, error) {
	switch name {
	case "google":
		apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is required for the google provider")
		}
		return routing.NewGoogleProvider(apiKey)
	case "osrm":
		return routing.NewOSRMProvider(osrmBaseURL, 30*time.Second), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (must be osrm or google)", name)
	}
}

func printRouteTable(route *routing.Route, steps []routing.Step, provider, profile string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	if isatty.IsTerminal(os.Stdout.Fd()) {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleDefault)
	}

	t.SetTitle(fmt.Sprintf("%s / %s — %.1f km, %s",
		provider, profile, route.DistanceM/1000, formatDuration(route.DurationS)))

	t.AppendHeader(table.Row{"#", "Label", "Instruction", "Distance"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})

	for i, step := range steps {
		t.AppendRow(table.Row{
			i + 1,
			guidance.ShortLabel(step),
			guidance.SpokenInstruction(step),
			formatDistance(step.DistanceM),
		})
	}

	t.Render()
}

func formatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%.0f m", meters)
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	if d >= time.Hour {
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
