package demo

import (
	"sync"

	"github.com/reactivedemo/shopping-cart/internal/pubsub"
)

// TodoItem is an entry in the todo list demo.
type TodoItem struct {
	ID    int
	Title string
}

// TodoList is a latest-value broadcaster of a todo list: every subscriber
// receives the current list on subscribe and on every mutation.
type TodoList struct {
	mu     sync.Mutex
	nextID int
	items  *pubsub.Value[[]TodoItem]
}

func NewTodoList() *TodoList {
	return &TodoList{
		nextID: 1,
		items:  pubsub.NewValue[[]TodoItem](nil),
	}
}

// Items is the latest-value stream of the list.
func (l *TodoList) Items() *pubsub.Value[[]TodoItem] {
	return l.items
}

// Add appends a new item and returns its id.
func (l *TodoList) Add(title string) int {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	current := l.items.Get()
	next := make([]TodoItem, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, TodoItem{ID: id, Title: title})
	l.items.Set(next)
	l.mu.Unlock()
	return id
}

// Update retitles the item with the given id. No-op if absent.
func (l *TodoList) Update(id int, title string) {
	l.mu.Lock()
	current := l.items.Get()
	next := make([]TodoItem, len(current))
	copy(next, current)
	for i := range next {
		if next[i].ID == id {
			next[i].Title = title
		}
	}
	l.items.Set(next)
	l.mu.Unlock()
}

// Remove drops the item with the given id. No-op if absent.
func (l *TodoList) Remove(id int) {
	l.mu.Lock()
	current := l.items.Get()
	next := make([]TodoItem, 0, len(current))
	for _, item := range current {
		if item.ID != id {
			next = append(next, item)
		}
	}
	l.items.Set(next)
	l.mu.Unlock()
}
