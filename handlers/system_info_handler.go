package handlers

import (
	"ahri-bot/bot"
	"ahri-bot/model"
	"ahri-bot/utils"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/carlmjohnson/versioninfo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func handleSystemInfo(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, _ *model.GuildConfig) {
	cpuCount, _ := cpu.Counts(true)
	cpuUsage := "n/a"
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", pct[0])
	}

	memUsage := "n/a"
	if vm, err := mem.VirtualMemory(); err == nil {
		memUsage = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}

	osVersion, kernel := "n/a", "n/a"
	if hostInfo, err := host.Info(); err == nil {
		osVersion = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		kernel = hostInfo.KernelVersion
	}

	cfg := b.GetConfig()
	var historySize int64
	if fi, err := os.Stat(cfg.HistoryDBPath); err == nil {
		historySize = fi.Size() / 1024
	}
	classifierState := "not configured"
	if cfg.ClassifierConfigured() {
		classifierState = "Sightengine"
	}

	embed := &discordgo.MessageEmbed{
		Title: "System info",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: osVersion, Inline: true},
			{Name: "🔧 Kernel", Value: kernel, Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🏷️ Version", Value: versioninfo.Short(), Inline: true},
			{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU usage", Value: cpuUsage, Inline: true},
			{Name: "🧠 Memory", Value: memUsage, Inline: true},
			{Name: "⏱️ WebSocket latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "🌍 Guild records touched", Value: fmt.Sprintf("%d", b.Store.LockCount()), Inline: true},
			{Name: "🗃️ History size", Value: fmt.Sprintf("%d KB", historySize), Inline: true},
			{Name: "🔍 Classifier", Value: classifierState, Inline: true},
			{Name: "⌛ Uptime", Value: time.Since(b.StartedAt).Truncate(time.Second).String(), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("System monitor · %s", time.Now().Format("15:04")),
		},
	}
	utils.SendEmbedResponse(s, i, embed, true)
}
