package config

// ServerConfig represents the configuration for the HTTP server
type ServerConfig struct {
	ListenAddress string
	Name          string
	Version       string
}

// ModelsConfig represents the configuration for model artifact storage
type ModelsConfig struct {
	Dir string
}

// DatasetConfig represents the configuration for synthetic dataset generation
type DatasetConfig struct {
	Path               string
	SamplesPerCategory int
	Seed               int64
}

// TrainingConfig represents the configuration for model training
type TrainingConfig struct {
	Trees        int
	TestFraction float64
	Seed         int64
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		Name:          c.GetString("server.name"),
		Version:       c.GetString("server.version"),
	}
}

// GetModels returns the model artifact configuration
func (c *Config) GetModels() ModelsConfig {
	return ModelsConfig{
		Dir: c.GetString("models.dir"),
	}
}

// GetDataset returns the dataset generation configuration
func (c *Config) GetDataset() DatasetConfig {
	return DatasetConfig{
		Path:               c.GetString("dataset.path"),
		SamplesPerCategory: c.GetInt("dataset.samples_per_category"),
		Seed:               c.GetInt64("dataset.seed"),
	}
}

// GetTraining returns the training configuration
func (c *Config) GetTraining() TrainingConfig {
	return TrainingConfig{
		Trees:        c.GetInt("training.trees"),
		TestFraction: c.GetFloat64("training.test_fraction"),
		Seed:         c.GetInt64("training.seed"),
	}
}
