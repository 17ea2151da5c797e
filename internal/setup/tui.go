package setup

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/unwraplabs/tyrion/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard.
func RunTUI() error {
	var (
		platform           string
		walletAddress      string
		ethereumRPC        string
		staticBalancesStr  string
		catalogURL         string
		refreshIntervalStr string
		llmURL             string
		llmKey             string
		llmModel           string
		serverAddr         string
		confirm            bool
	)

	// defaults
	refreshIntervalStr = "5m"
	catalogURL = "https://api.vesu.xyz/pools"
	llmURL = "http://localhost:11434/v1/chat/completions"
	llmModel = "qwen3:8b"
	serverAddr = ":8080"

	// step 1: welcome + platform
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("TYRION CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's set up your yield advisor.\n"))

	fmt.Println(stepStyle.Render("STEP 1: WALLET"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where do your balances live?").
				Options(
					huh.NewOption("Ethereum wallet (on-chain)", "ethereum"),
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Hyperliquid", "hyperliquid"),
					huh.NewOption("Static balances (dry run)", "static"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	// platform specifics
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TYRION CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: WALLET DETAILS"))
	switch platform {
	case "ethereum":
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Wallet Address").
					Description("0x-prefixed account address").
					Value(&walletAddress).
					Validate(func(s string) error {
						if len(s) != 42 || s[:2] != "0x" {
							return fmt.Errorf("must be a 0x-prefixed 20-byte address")
						}
						return nil
					}),
				huh.NewInput().
					Title("Ethereum RPC URL").
					Value(&ethereumRPC).
					Validate(func(s string) error {
						if s == "" {
							return fmt.Errorf("rpc url cannot be empty")
						}
						return nil
					}),
			),
		).Run()
	case "static":
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Balances").
					Description("Comma-separated SYMBOL=AMOUNT pairs (e.g. USDC=1000,ETH=1.5)").
					Value(&staticBalancesStr).
					Validate(func(s string) error {
						_, err := parseBalancePairs(s)
						return err
					}),
			),
		).Run()
	default:
		// exchange API keys come from environment variables, nothing to ask
		fmt.Println(lipgloss.NewStyle().Foreground(subtle).
			Render("API keys are read from environment variables at startup.\n"))
	}
	if err != nil {
		return err
	}

	// catalog
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TYRION CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: POOL CATALOG"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Catalog API URL").
				Value(&catalogURL).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("catalog url cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Refresh Interval").
				Description("Duration string (e.g. 1m, 5m, 1h)").
				Value(&refreshIntervalStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// llm
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TYRION CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: LLM CLASSIFIER"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("LLM API URL").
				Description("Leave empty to use the keyword-based classifier only").
				Value(&llmURL),
			huh.NewInput().
				Title("LLM API Key").
				Value(&llmKey).
				EchoMode(huh.EchoModePassword),
			huh.NewInput().
				Title("Model Name").
				Value(&llmModel),
		),
	).Run()
	if err != nil {
		return err
	}

	// server
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TYRION CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 5: WEB SERVER"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen Address").
				Description("e.g. :8080").
				Value(&serverAddr),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TYRION CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Wallet: %s\nCatalog: %s\nRefresh: %s\nLLM: %s\nServer: %s\n",
		platform, catalogURL, refreshIntervalStr, llmModel, serverAddr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	refreshInterval, _ := time.ParseDuration(refreshIntervalStr)
	staticBalances, _ := parseBalancePairs(staticBalancesStr)

	cfg := config.FileConfig{
		Platform:        platform,
		WalletAddress:   walletAddress,
		EthereumRPC:     ethereumRPC,
		StaticBalances:  staticBalances,
		CatalogURL:      catalogURL,
		RefreshInterval: refreshInterval,
		ServerAddr:      serverAddr,
	}
	if llmURL != "" {
		cfg.LLM = config.LLM{URL: llmURL, APIKey: llmKey, Model: llmModel}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting advisor...", filename)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func parseBalancePairs(s string) (map[string]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid balance entry %q, expected SYMBOL=AMOUNT", pair)
		}
		symbol := strings.TrimSpace(parts[0])
		amount := strings.TrimSpace(parts[1])
		if _, err := decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid amount for %s: %s", symbol, amount)
		}
		out[symbol] = amount
	}
	return out, nil
}
