package api

import (
	"net/http"
	"runtime"

	"guild-janitor/model"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

type systemInfo struct {
	Hostname      string          `json:"hostname"`
	OS            string          `json:"os"`
	Platform      string          `json:"platform"`
	Uptime        uint64          `json:"uptime"`
	CPUCount      int             `json:"cpuCount"`
	CPUPercent    float64         `json:"cpuPercent"`
	MemoryTotal   uint64          `json:"memoryTotal"`
	MemoryUsed    uint64          `json:"memoryUsed"`
	MemoryPercent float64         `json:"memoryPercent"`
	GoVersion     string          `json:"goVersion"`
	Goroutines    int             `json:"goroutines"`
	BotStatus     model.BotStatus `json:"botStatus"`
}

// getSystem reports host and process statistics. gopsutil failures leave the
// matching fields zero.
func (s *Server) getSystem(c *gin.Context) {
	info := systemInfo{
		OS:         runtime.GOOS,
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		BotStatus:  s.bot.Status(),
	}

	if h, err := host.InfoWithContext(c.Request.Context()); err == nil {
		info.Hostname = h.Hostname
		info.Platform = h.Platform
		info.Uptime = h.Uptime
	}
	if n, err := cpu.CountsWithContext(c.Request.Context(), true); err == nil {
		info.CPUCount = n
	}
	if pct, err := cpu.PercentWithContext(c.Request.Context(), 0, false); err == nil && len(pct) > 0 {
		info.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(c.Request.Context()); err == nil {
		info.MemoryTotal = vm.Total
		info.MemoryUsed = vm.Used
		info.MemoryPercent = vm.UsedPercent
	}

	c.JSON(http.StatusOK, info)
}
