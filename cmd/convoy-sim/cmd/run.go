package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/picogrid/convoy-tracker/pkg/client"
	"github.com/picogrid/convoy-tracker/pkg/config"
	"github.com/picogrid/convoy-tracker/pkg/logger"
	"github.com/picogrid/convoy-tracker/pkg/simulation"
	"github.com/picogrid/convoy-tracker/pkg/utils"

	// Import scenarios to register them
	_ "github.com/picogrid/convoy-tracker/cmd/convoy-sim/scenarios/accuracyburst"
	_ "github.com/picogrid/convoy-tracker/cmd/convoy-sim/scenarios/strikemission"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario",
	Long:  `Run a scenario interactively or with specified parameters`,
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().StringP("scenario", "s", "", "scenario name to run")
	runCmd.Flags().Bool("dry-run", false, "run the scenario without posting to the tracker")
}

func runScenario(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var env *config.Environment
	var apiKey string
	if dryRun {
		env = &config.Environment{Name: "dry-run", URL: "http://localhost:8080"}
	} else {
		var err error
		env, apiKey, err = selectEnvironment()
		if err != nil {
			return fmt.Errorf("failed to select environment: %w", err)
		}
	}

	trackerClient, err := client.NewClient(client.Config{
		BaseURL: env.URL,
		APIKey:  apiKey,
		DryRun:  dryRun,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracker client: %w", err)
	}

	if dryRun {
		logger.Warn("Dry run: no operations will reach the tracker")
	} else {
		logger.Info("Testing connection to tracker...")
		if err := trackerClient.Health(context.Background()); err != nil {
			return fmt.Errorf("failed to connect to tracker: %w", err)
		}
		logger.Success("Successfully connected to tracker")
	}

	scenarioName, err := selectScenario(cmd)
	if err != nil {
		return fmt.Errorf("failed to select scenario: %w", err)
	}

	scenario, err := simulation.DefaultRegistry.Get(scenarioName)
	if err != nil {
		return fmt.Errorf("failed to get scenario: %w", err)
	}

	infos, err := utils.DiscoverScenarios()
	if err != nil {
		return fmt.Errorf("failed to discover scenarios: %w", err)
	}

	var scenarioConfig *simulation.ScenarioConfig
	for _, info := range infos {
		if info.Config.Name == scenarioName {
			scenarioConfig = &info.Config
			break
		}
	}

	if scenarioConfig == nil {
		return fmt.Errorf("scenario configuration not found for %s", scenarioName)
	}

	params, err := utils.CollectParameters(scenarioConfig.Parameters)
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}

	if err := scenario.Configure(params); err != nil {
		return fmt.Errorf("failed to configure scenario: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Warn("\nReceived interrupt signal, stopping scenario...")
		if err := scenario.Stop(); err != nil {
			logger.Errorf("Failed to stop scenario: %v", err)
			return
		}
		cancel()
	}()

	logger.LogSection(fmt.Sprintf("Starting %s", scenario.Name()))
	if err := scenario.Run(ctx, trackerClient); err != nil {
		return fmt.Errorf("scenario failed: %w", err)
	}

	logger.Success("Scenario completed successfully")
	return nil
}

func selectEnvironment() (*config.Environment, string, error) {
	// Check if URL is provided via flag or environment variable
	if envURL != "" {
		return &config.Environment{
			Name: "Custom",
			URL:  envURL,
		}, os.Getenv("CONVOY_API_KEY"), nil
	}

	if trackerURL := os.Getenv("CONVOY_URL"); trackerURL != "" {
		return &config.Environment{
			Name: "Environment",
			URL:  trackerURL,
		}, os.Getenv("CONVOY_API_KEY"), nil
	}

	// Load environment configurations
	envs, err := config.LoadEnvironments()
	if err != nil {
		return nil, "", err
	}

	// Check if environment is specified via flag
	if envName != "" {
		env, err := envs.Get(envName)
		if err != nil {
			return nil, "", err
		}
		return env, resolveAPIKey(env), nil
	}

	// Interactive selection
	options := make([]string, len(envs.Environments)+1)
	for i, env := range envs.Environments {
		options[i] = env.Name
	}
	options[len(options)-1] = "Custom URL"

	var selected string
	prompt := &survey.Select{
		Message: "Select environment:",
		Options: options,
		Default: envs.Selected,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, "", err
	}

	if selected == "Custom URL" {
		var customURL string
		urlPrompt := &survey.Input{
			Message: "Enter tracker API URL:",
			Default: "http://localhost:8080",
		}
		if err := survey.AskOne(urlPrompt, &customURL); err != nil {
			return nil, "", err
		}

		var apiKey string
		keyPrompt := &survey.Password{
			Message: "Enter API key (optional):",
		}
		if err := survey.AskOne(keyPrompt, &apiKey); err != nil {
			return nil, "", err
		}

		return &config.Environment{
			Name: "Custom",
			URL:  customURL,
		}, apiKey, nil
	}

	env, err := envs.Get(selected)
	if err != nil {
		return nil, "", err
	}
	return env, resolveAPIKey(env), nil
}

// resolveAPIKey treats the environment's api_key field as the name of
// an environment variable holding the real key.
func resolveAPIKey(env *config.Environment) string {
	if env.APIKey == "" {
		return ""
	}
	return os.Getenv(env.APIKey)
}

func selectScenario(cmd *cobra.Command) (string, error) {
	// Check if scenario is specified via flag
	scenarioName, _ := cmd.Flags().GetString("scenario")
	if scenarioName != "" {
		return scenarioName, nil
	}

	// Discover available scenarios
	infos, err := utils.DiscoverScenarios()
	if err != nil {
		return "", err
	}

	if len(infos) == 0 {
		return "", fmt.Errorf("no scenarios found")
	}

	// Build options for selection
	options := make([]string, len(infos))
	descriptions := make(map[string]string)

	for i, info := range infos {
		options[i] = info.Config.Name
		descriptions[info.Config.Name] = info.Config.Description
	}

	// Interactive selection
	var selected string
	prompt := &survey.Select{
		Message: "Select scenario:",
		Options: options,
		Description: func(value string, index int) string {
			return descriptions[value]
		},
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	return selected, nil
}
