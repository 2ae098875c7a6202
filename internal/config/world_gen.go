package config

import "sync"

// Generator kinds accepted by SetGenerator.
const (
	GeneratorNoise = "noise"
	GeneratorFlat  = "flat"
)

// WorldGenSettings holds world generation configuration
type WorldGenSettings struct {
	mu         sync.RWMutex
	seed       int64
	generator  string
	radius     int // chunks around the origin chunk
	height     int // vertical chunk layers
	baseHeight int // surface level for both generators
}

var globalWorldGenSettings = &WorldGenSettings{
	seed:       1337,
	generator:  GeneratorNoise,
	radius:     6,
	height:     3,
	baseHeight: 12,
}

// GetSeed returns the world seed
func GetSeed() int64 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.seed
}

// SetSeed sets the world seed
func SetSeed(seed int64) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.seed = seed
}

// GetGenerator returns the generator kind
func GetGenerator() string {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.generator
}

// SetGenerator selects the generator. Unknown kinds fall back to noise.
func SetGenerator(kind string) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	if kind != GeneratorFlat {
		kind = GeneratorNoise
	}
	globalWorldGenSettings.generator = kind
}

// GetWorldRadius returns the generated radius in chunks
func GetWorldRadius() int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.radius
}

// SetWorldRadius sets the generated radius, clamped to [0, 32]
func SetWorldRadius(radius int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.radius = min(max(radius, 0), 32)
}

// GetWorldHeight returns the number of vertical chunk layers
func GetWorldHeight() int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.height
}

// SetWorldHeight sets the vertical chunk layers, clamped to [1, 16]
func SetWorldHeight(height int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.height = min(max(height, 1), 16)
}

// GetBaseHeight returns the terrain surface level in blocks
func GetBaseHeight() int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.baseHeight
}

// SetBaseHeight sets the surface level, clamped to [0, 255]
func SetBaseHeight(h int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.baseHeight = min(max(h, 0), 255)
}
