// Command librertoscli boots a librertos Kernel, runs two demo tasks
// synchronized through a semaphore, and a periodic software timer, printing
// scheduler trace logs to stderr until interrupted.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"time"

	librertos "github.com/djboni/librertos"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	k, err := librertos.New(
		librertos.WithMaxPriority(4),
		librertos.WithPreemption(true),
		librertos.WithSoftwareTimers(true),
		librertos.WithStatistics(true),
		librertos.WithLogger(librertos.NewDefaultLogger(librertos.LevelInfo)),
	)
	if err != nil {
		return err
	}

	var sem librertos.Semaphore
	sem.SemaphoreInit(0, 1)

	producer, err := k.TaskCreate(2, "producer", nil)
	if err != nil {
		return err
	}
	consumer, err := k.TaskCreate(1, "consumer", nil)
	if err != nil {
		return err
	}

	go func() {
		for {
			k.TaskDelay(producer, 10)
			if err := k.SemaphoreGive(&sem); err != nil {
				continue
			}
		}
	}()

	go func() {
		for {
			if err := k.SemaphoreTakePend(&sem, consumer, librertos.TicksInfinite); err == nil {
				log.Printf("consumer woke at tick=%d", k.TickCount())
			}
		}
	}()

	var beat librertos.Timer
	beat.TimerInit(func(*librertos.Timer) {
		stats := k.Stats()
		log.Printf("heartbeat: tick=%d switches=%d", k.TickCount(), stats.ContextSwitches)
	})
	if err := k.TimerStartPeriodic(&beat, 50); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := k.Run(ctx, time.Millisecond); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
