package app

import (
	"os"
	"time"

	"github.com/nexretail/nexpos/internal/domain"
	"github.com/nexretail/nexpos/internal/labeling"
	"github.com/nexretail/nexpos/pkg/common"
	"github.com/nexretail/nexpos/pkg/metrics"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"
)

// Metric series written by background jobs and the label pipeline.
const (
	MetricsSystemCpuuse     = "system_cpuuse"
	MetricsSystemMemuse     = "system_memuse"
	MetricsNexposCpuuse     = "nexpos_cpuuse"
	MetricsNexposMemuse     = "nexpos_memuse"
	MetricsLabelsPrinted    = "labels_printed"
	MetricsPrintJobsOk      = "labels_print_jobs_ok"
	MetricsPrintJobsFailed  = "labels_print_jobs_failed"
	MetricsLabelsSkipped    = "labels_skipped"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedClearExpireData()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// initLabelPipeline wires the label print pipeline against the database and
// subscribes the print log writer on the event bus.
func (a *Application) initLabelPipeline() {
	workers := int(a.configManager.GetInt64("labels", "RenderWorkers"))
	if workers <= 0 {
		workers = 8
	}
	bulkCap := int(a.configManager.GetInt64("labels", "BulkLabelCap"))
	if bulkCap <= 0 {
		bulkCap = a.appConfig.Labels.BulkLabelCap
	}
	company := a.configManager.GetString("labels", "CompanyName")
	if company == "" {
		company = a.appConfig.Labels.CompanyName
	}

	formatter := labeling.NewFormatter(company)
	assembler, err := labeling.NewAssembler(formatter, labeling.NewRenderer(), workers)
	if err != nil {
		zap.S().Panicf("failed to create label assembler: %v", err)
	}
	a.assembler = assembler
	a.pipeline = labeling.NewPipeline(
		labeling.NewGormRecordSource(a.gormDB),
		labeling.NewBuilder(bulkCap),
		formatter,
		assembler,
		a.bus,
	)

	if err := a.bus.SubscribeAsync(labeling.TopicPrintFinished, a.onPrintFinished, false); err != nil {
		zap.L().Error("failed to subscribe print log writer", zap.Error(err))
	}
}

// onPrintFinished persists one print log row per finished job and bumps the
// label metrics, succeeded or failed.
func (a *Application) onPrintFinished(result *labeling.PrintJobResult) {
	status := "succeeded"
	if !result.Success {
		status = "failed"
	}

	err := a.gormDB.Create(&domain.PrintLog{
		ID:          common.UUIDint64(),
		JobID:       result.JobID,
		OprName:     result.Operator,
		TotalLabels: result.TotalLabels,
		Copies:      result.Copies,
		Format:      result.Format,
		Status:      status,
		Message:     result.Message,
		SkipCount:   len(result.Skipped),
		CreatedAt:   time.Now(),
	}).Error
	if err != nil {
		zap.L().Error("failed to write print log", zap.Int64("job_id", result.JobID), zap.Error(err))
	}

	if result.Success {
		metrics.IncrCounter(MetricsPrintJobsOk, 1)
		metrics.IncrCounter(MetricsLabelsPrinted, int64(result.TotalLabels))
	} else {
		metrics.IncrCounter(MetricsPrintJobsFailed, 1)
	}
	if len(result.Skipped) > 0 {
		metrics.IncrCounter(MetricsLabelsSkipped, int64(len(result.Skipped)))
	}
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	// Collect CPU usage
	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge(MetricsSystemCpuuse, int64(_cpuuse[0]*100)) // Store as percentage * 100
	}

	// Collect memory usage
	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge(MetricsSystemMemuse, int64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	// Collect process CPU usage
	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge(MetricsNexposCpuuse, int64(cpuuse*100)) // Store as percentage * 100
	}

	// Collect process memory usage
	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge(MetricsNexposMemuse, int64(meminfo.RSS/1024/1024))
	}
}

// SchedClearExpireData purges aged operator and print logs per settings.
func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	oprDays := a.ConfigMgr().GetInt("system", "OprLogDays")
	if oprDays == 0 {
		oprDays = 365
	}
	a.gormDB.
		Where("opt_time < ? ", time.Now().
			Add(-time.Hour*24*time.Duration(oprDays))).Delete(domain.SysOprLog{})

	printDays := a.ConfigMgr().GetInt("labels", "PrintLogDays")
	if printDays == 0 {
		printDays = a.appConfig.Labels.PrintLogDays
	}
	a.gormDB.
		Where("created_at < ? ", time.Now().
			Add(-time.Hour*24*time.Duration(printDays))).Delete(domain.PrintLog{})
}
