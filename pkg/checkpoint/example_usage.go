package checkpoint

import (
	"fmt"
	"log"
)

func ExampleManager() {
	// Create checkpoint manager for a campaign
	mgr, err := NewManager("2015-2025")
	if err != nil {
		log.Fatal(err)
	}

	// Check if checkpoint exists
	if mgr.Exists() {
		// Load existing checkpoint
		cp, err := mgr.Load()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Resuming campaign: %d quarters done\n", len(cp.CompletedQuarters))
	} else {
		// Create new checkpoint
		cp, err := mgr.Create("run-7f3a", 2015, 2025, 1, 30)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Starting fresh campaign")

		// Record progress as quarters finish
		err = mgr.MarkQuarterDone(cp, 2025, 1, 120, 37)
		if err != nil {
			log.Fatal(err)
		}
	}

	// When the campaign completes successfully, delete the checkpoint
	err = mgr.Delete()
	if err != nil {
		log.Printf("Failed to delete checkpoint: %v", err)
	}
}

func ExampleCheckpoint_IsQuarterDone() {
	mgr, _ := NewManager("example")
	cp, _ := mgr.Create("run-7f3a", 2020, 2021, 1, 30)

	// Record some finished quarters
	mgr.MarkQuarterDone(cp, 2021, 1, 50, 12)
	mgr.MarkQuarterDone(cp, 2021, 2, 64, 18)

	// Check quarters before crawling them
	if cp.IsQuarterDone(2021, 1) {
		fmt.Println("2021 Q1 already crawled, skipping")
	}

	if !cp.IsQuarterDone(2020, 4) {
		fmt.Println("2020 Q4 not crawled yet, will crawl")
	}

	mgr.Delete()

	// Output:
	// 2021 Q1 already crawled, skipping
	// 2020 Q4 not crawled yet, will crawl
}
