package service

import (
	"runtime"
	"time"

	"github.com/MindDevsDavid/DragonScan/config"
	"github.com/MindDevsDavid/DragonScan/database"
	"github.com/MindDevsDavid/DragonScan/database/model"
	"github.com/MindDevsDavid/DragonScan/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/atomic"
)

// RequestCount counts handled HTTP requests since process start. Incremented
// by middleware, surfaced on the admin dashboard.
var RequestCount = atomic.NewUint64(0)

// Status is the snapshot shown on the admin dashboard status card.
type Status struct {
	T       time.Time `json:"-"`
	Version string    `json:"version"`
	Cpu     float64   `json:"cpu"`
	Mem     struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Uptime   uint64 `json:"uptime"`
	Requests uint64 `json:"requests"`
	AppStats struct {
		Goroutines int    `json:"goroutines"`
		Mem        uint64 `json:"mem"`
	} `json:"appStats"`
	Library struct {
		Series   int64 `json:"series"`
		Chapters int64 `json:"chapters"`
		Lectores int64 `json:"lectores"`
	} `json:"library"`
}

// StatusService collects host and library statistics for the dashboard.
type StatusService struct{}

func (s *StatusService) GetStatus() *Status {
	status := &Status{
		T:        time.Now(),
		Version:  config.GetVersion(),
		Requests: RequestCount.Load(),
	}

	if percents, err := cpu.Percent(0, false); err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	if uptime, err := host.Uptime(); err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = uptime
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	status.AppStats.Goroutines = runtime.NumGoroutine()
	status.AppStats.Mem = memStats.Sys

	s.countLibrary(status)
	return status
}

func (s *StatusService) countLibrary(status *Status) {
	db := database.GetDB()

	if err := db.Model(model.Series{}).Count(&status.Library.Series).Error; err != nil {
		logger.Warning("count series failed:", err)
	}
	if err := db.Model(model.Profile{}).Count(&status.Library.Lectores).Error; err != nil {
		logger.Warning("count profiles failed:", err)
	}

	// Chapters live inside the series rows, so they are counted by walking
	// the lists rather than with a table count.
	var allSeries []*model.Series
	if err := db.Model(model.Series{}).Find(&allSeries).Error; err != nil {
		logger.Warning("list series failed:", err)
		return
	}
	for _, series := range allSeries {
		chapters, err := series.ChapterList()
		if err != nil {
			continue
		}
		status.Library.Chapters += int64(len(chapters))
	}
}
