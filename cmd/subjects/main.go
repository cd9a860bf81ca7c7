// Command subjects walks through the three broadcast patterns: a
// complete-once calculation, a bounded event history, and a latest-value
// todo list.
package main

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/reactivedemo/shopping-cart/internal/config"
	"github.com/reactivedemo/shopping-cart/internal/demo"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	runCalculator()
	runEventLog(cfg.ReplayBufferSize)
	runTodoList()
}

func runCalculator() {
	fmt.Println("--- complete-once ---")
	calc := demo.NewCalculator()

	calc.Subscribe(func(result int) {
		fmt.Println("early subscriber got:", result)
	})

	calc.Run([]int{1, 2, 3, 4, 5})

	calc.Subscribe(func(result int) {
		fmt.Println("late subscriber got:", result)
	})
}

func runEventLog(size int) {
	fmt.Println("--- bounded replay ---")
	log := demo.NewEventLog(size)

	log.Record("Event A")
	log.Record("Event B")
	log.Record("Event C")
	log.Record("Event D")

	view := log.WatchView()
	defer view.Close()
	fmt.Println("late subscriber sees:", view.Events())
}

func runTodoList() {
	fmt.Println("--- latest value ---")
	todos := demo.NewTodoList()

	cancel := todos.Items().Subscribe(func(items []demo.TodoItem) {
		titles := make([]string, 0, len(items))
		for _, item := range items {
			titles = append(titles, item.Title)
		}
		fmt.Println("list:", titles)
	})
	defer cancel()

	milk := todos.Add("buy milk")
	todos.Add("walk the dog")
	todos.Update(milk, "buy oat milk")
	todos.Remove(milk)

	slog.Info("Demos finished")
}
