package config

// Example usage of the configuration system:
//
// 1. Load configuration with all sources:
//
//     config, err := config.Load("", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 2. Load with custom config file:
//
//     config, err := config.Load("/path/to/config.yaml", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 3. Load with command line flags:
//
//     flags := map[string]interface{}{
//         "start-year": 2018,
//         "end-year":   2024,
//         "interval":   14,
//         "max-pages":  3,
//         "output":     "./my-dataset",
//         "log-level":  "debug",
//     }
//     config, err := config.Load("", flags)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 4. Programmatic configuration:
//
//     config := config.DefaultConfig()
//     config.GitHub.Token = "ghp_your_token"
//     config.Campaign.IntervalDays = 14
//     config.Search.PerPage = 50
//
//     if err := config.Validate(); err != nil {
//         log.Fatal(err)
//     }
//
// 5. Save configuration to file:
//
//     if err := config.Save(".l10nminer.yaml"); err != nil {
//         log.Fatal(err)
//     }
//
// 6. Environment variables:
//
//     export GITHUB_TOKEN="ghp_your_token"
//     export L10NMINER_START_YEAR="2018"
//     export L10NMINER_END_YEAR="2024"
//     export L10NMINER_INTERVAL_DAYS="14"
//     export L10NMINER_MAX_PAGES="3"
//     export L10NMINER_OUTPUT_DIR="./dataset"
//     export L10NMINER_NOTIFICATIONS_ENABLED="true"
//     export L10NMINER_LOG_LEVEL="debug"
//
// 7. Using configuration in your application:
//
//     // Create GitHub client with config
//     client := github.NewClient(&config.GitHub)
//
//     // Set up the courtesy delay between search pages
//     limiter := ratelimit.NewTokenBucket(1, config.RateLimit.PageDelay)
//
//     // Plan date windows for a quarter
//     planner := window.NewPlanner(config.Campaign.IntervalDays)
