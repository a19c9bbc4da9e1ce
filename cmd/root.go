package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "resume-matcher"
	envPrefix = "RESUME_MATCHER"
)

type Config struct {
	Models    *ModelsConfig  `mapstructure:"models" validate:"required"`
	Gemini    *GeminiConfig  `mapstructure:"gemini" validate:"required"`
	Ranking   *RankingConfig `mapstructure:"ranking" validate:"required"`
	Anonymize bool           `mapstructure:"anonymize"`
}

type ModelsConfig struct {
	Annotator AnnotatorConfig `mapstructure:"annotator"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Relevance RelevanceConfig `mapstructure:"relevance"`
}

type AnnotatorConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=prose gemini"`
	Model    string `mapstructure:"model"`
}

type EmbeddingConfig struct {
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions" validate:"gte=0"`
}

type RelevanceConfig struct {
	Model string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

type RankingConfig struct {
	Workers      int     `mapstructure:"workers" validate:"gte=0"`
	MinimumScore float64 `mapstructure:"minimum-score" validate:"gte=0,lte=1"`
	Top          int     `mapstructure:"top" validate:"gte=0"`
	ExcludeFile  string  `mapstructure:"exclude-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher scores how well resumes match job postings",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every key so that environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("models.annotator.provider", "prose")
	v.SetDefault("models.annotator.model", "")
	v.SetDefault("models.embedding.model", "")
	v.SetDefault("models.embedding.dimensions", 0)
	v.SetDefault("models.relevance.model", "")
	v.SetDefault("gemini.api-key", "")
	v.SetDefault("gemini.api-key-file", "")
	v.SetDefault("gemini.max-retries", 3)
	v.SetDefault("gemini.max-log-length", 200)
	v.SetDefault("ranking.workers", 4)
	v.SetDefault("ranking.minimum-score", 0.0)
	v.SetDefault("ranking.top", 0)
	v.SetDefault("ranking.exclude-file", "")
	v.SetDefault("anonymize", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	// A missing .env file is fine, the environment is used as is.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
