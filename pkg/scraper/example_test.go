package scraper_test

import (
	"fmt"

	"playharvest/pkg/config"
	"playharvest/pkg/scraper"
)

func ExampleWorkUnit_Key() {
	fmt.Println(scraper.WorkUnit{Country: "us", Category: "TOOLS"}.Key())
	fmt.Println(scraper.WorkUnit{Country: "de", Category: "GAME", Collection: "TOP_FREE"}.Key())
	// Output:
	// us_TOOLS
	// de_GAME_TOP_FREE
}

func ExampleOptions_Units() {
	opts := scraper.Options{
		Mode:       config.ModeSearch,
		Countries:  []string{"us", "gb"},
		Categories: []string{"TOOLS", "GAME"},
	}
	for _, u := range opts.Units() {
		fmt.Println(u.Key())
	}
	// Output:
	// us_TOOLS
	// us_GAME
	// gb_TOOLS
	// gb_GAME
}
