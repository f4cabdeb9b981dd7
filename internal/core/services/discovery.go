package services

import (
	"fmt"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/domain"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driven"
	"github.com/JoLichtenfeld/ros2bag-tools/internal/logger"
)

// discoveryDepth limits recursion to one level below any given root.
const discoveryDepth = 1

// Discovery finds valid bag directories under user-supplied paths.
type Discovery struct {
	storage driven.Storage
}

// NewDiscovery creates a discovery service.
func NewDiscovery(storage driven.Storage) *Discovery {
	return &Discovery{storage: storage}
}

// Discover walks each path and returns the valid bags found, in input
// order and deduplicated. A path that does not exist fails the whole
// run; a path that exists but yields no bag is logged and skipped.
func (d *Discovery) Discover(paths []string) ([]string, error) {
	var (
		bags []string
		seen = make(map[string]bool)
	)
	for _, path := range paths {
		if !d.storage.Exists(path) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPathNotFound, path)
		}
		before := len(bags)
		bags = d.discover(path, discoveryDepth, bags, seen)
		if len(bags) == before {
			logger.Warn("no valid bags under %s", path)
		}
	}

	logger.Info("found %d bag(s)", len(bags))
	for _, bag := range bags {
		logger.Info(" - %s", bag)
	}
	return bags, nil
}

// discover tests path itself first; a valid bag stops the recursion,
// anything else descends into its subdirectories until depth runs out.
func (d *Discovery) discover(path string, depth int, bags []string, seen map[string]bool) []string {
	if depth < 0 {
		return bags
	}
	if d.storage.IsBag(path) {
		if !seen[path] {
			seen[path] = true
			bags = append(bags, path)
		}
		return bags
	}

	subs, err := d.storage.SubDirs(path)
	if err != nil {
		logger.Debug("skipping %s: %v", path, err)
		return bags
	}
	for _, sub := range subs {
		bags = d.discover(sub, depth-1, bags, seen)
	}
	return bags
}
