package model

// TaskTemplate is a static task prototype used to seed new tasks. Templates
// are compiled in, never persisted, and shared by all users.
type TaskTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    int    `json:"priority"`
	OrderIndex  int    `json:"order_index"`
}

// taskTemplates is the built-in catalog, in default display order.
var taskTemplates = []TaskTemplate{
	{ID: "1", Name: "Change Address", Description: "Update your address with all relevant services and organizations", Category: "Administrative", Priority: 5, OrderIndex: 1},
	{ID: "2", Name: "Book Moving Company", Description: "Research and book a reliable moving company", Category: "Logistics", Priority: 5, OrderIndex: 2},
	{ID: "3", Name: "Pack Kitchen", Description: "Pack all kitchen items and appliances", Category: "Packing", Priority: 3, OrderIndex: 3},
	{ID: "4", Name: "Pack Living Room", Description: "Pack living room furniture and decorations", Category: "Packing", Priority: 3, OrderIndex: 4},
	{ID: "5", Name: "Pack Bedroom", Description: "Pack bedroom furniture and personal items", Category: "Packing", Priority: 3, OrderIndex: 5},
	{ID: "6", Name: "Transfer Utilities", Description: "Set up utilities at new location and cancel old ones", Category: "Administrative", Priority: 4, OrderIndex: 6},
	{ID: "7", Name: "Update Insurance", Description: "Update home and auto insurance policies", Category: "Administrative", Priority: 4, OrderIndex: 7},
	{ID: "8", Name: "Clean Old Home", Description: "Deep clean the old home before moving out", Category: "Cleaning", Priority: 2, OrderIndex: 8},
	{ID: "9", Name: "Unpack Essentials", Description: "Unpack essential items first in the new home", Category: "Unpacking", Priority: 4, OrderIndex: 9},
	{ID: "10", Name: "Set Up New Home", Description: "Arrange furniture and set up the new home", Category: "Unpacking", Priority: 3, OrderIndex: 10},
}

// TaskTemplates returns the built-in template catalog.
func TaskTemplates() []TaskTemplate {
	out := make([]TaskTemplate, len(taskTemplates))
	copy(out, taskTemplates)
	return out
}

// TaskTemplateByID looks up a template by id. Returns nil for unknown ids.
func TaskTemplateByID(id string) *TaskTemplate {
	for i := range taskTemplates {
		if taskTemplates[i].ID == id {
			t := taskTemplates[i]
			return &t
		}
	}
	return nil
}
