package services

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"

	"github.com/nats-io/nats.go"
)

const acceptSubject = "decision.accept"
const acceptQueue = "acceptance-workers"

// AcceptanceRunner 把采纳流程包装成可投递的异步任务。
// 配置了 NATS_URL 时任务经由 NATS 队列组投递（至少一次，可能重试，
// AcceptDecision 本身对重复调用是安全的）；没配置时退化为进程内
// goroutine，契约不变。
type AcceptanceRunner struct {
	nc *nats.Conn
}

var (
	acceptanceRunner *AcceptanceRunner
	acceptanceOnce   sync.Once
)

type acceptTask struct {
	DecisionID uint `json:"decision_id"`
}

// GetAcceptanceRunner 获取单例任务执行器，首次调用时建立连接并启动订阅
func GetAcceptanceRunner() *AcceptanceRunner {
	acceptanceOnce.Do(func() {
		acceptanceRunner = &AcceptanceRunner{}

		url := os.Getenv("NATS_URL")
		if url == "" {
			log.Println("NATS_URL 未配置，采纳任务将在进程内执行")
			return
		}

		nc, err := nats.Connect(url)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		acceptanceRunner.nc = nc

		// 队列组订阅：多实例部署时每个任务只被一个 worker 消费
		_, err = nc.QueueSubscribe(acceptSubject, acceptQueue, func(msg *nats.Msg) {
			var task acceptTask
			if err := json.Unmarshal(msg.Data, &task); err != nil {
				log.Printf("采纳任务解析失败: %v", err)
				return
			}
			RunAcceptance(task.DecisionID)
		})
		if err != nil {
			log.Fatalf("Failed to subscribe to NATS: %v", err)
		}
		log.Println("NATS connected, acceptance worker subscribed")
	})
	return acceptanceRunner
}

// Dispatch 投递一个采纳任务，调用方不等待结果
func (r *AcceptanceRunner) Dispatch(decisionID uint) {
	if r.nc == nil {
		go RunAcceptance(decisionID)
		return
	}
	data, _ := json.Marshal(acceptTask{DecisionID: decisionID})
	if err := r.nc.Publish(acceptSubject, data); err != nil {
		log.Printf("采纳任务投递失败 (决策 %d): %v", decisionID, err)
	}
}

// RunAcceptance 执行采纳并把结果折叠成布尔值。
// 异步路径没有等待响应的请求方，业务性失败（未通过、不存在）
// 不能作为错误抛出任务边界，只记日志。
func RunAcceptance(decisionID uint) bool {
	err := AcceptDecision(decisionID)
	if err == nil {
		log.Printf("决策 %d 已采纳", decisionID)
		return true
	}
	if errors.Is(err, ErrRejected) || errors.Is(err, ErrNotFound) {
		log.Printf("决策 %d 采纳未通过: %v", decisionID, err)
	} else {
		log.Printf("决策 %d 采纳执行出错: %v", decisionID, err)
	}
	return false
}
