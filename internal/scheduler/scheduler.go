package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler 按 cron 表达式周期执行聚合任务
type Scheduler struct {
	cron *cron.Cron
	job  func()
}

// New 注册任务；spec 为标准 5 段 cron 表达式
func New(spec string, job func()) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron: c,
		job:  job,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟执行首轮聚合，避免与服务启动时的首批请求争抢资源
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.runOnce()
	})
}

// RunOnce 对外暴露的单次执行入口，方便手动触发聚合
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start aggregation job...")
	s.job()
	log.Println("aggregation job done")
}
