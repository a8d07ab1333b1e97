package hoydedata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tilesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hoydedata_tiles_discovered_total",
		Help: "The total number of tiles whose metadata was read",
	})
	tileLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hoydedata_tile_loads_total",
		Help: "The total number of tiles whose samples were read",
	})
	lookupHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hoydedata_lookup_hits_total",
		Help: "The total number of lookups that returned a height",
	})
	lookupMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hoydedata_lookup_misses_total",
		Help: "The total number of lookups for which no tile had data",
	})
	archiveMounts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hoydedata_archive_mounts_total",
		Help: "The total number of archives mounted",
	})
)
