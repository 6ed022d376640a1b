package model

import "testing"

func TestTaskTemplates(t *testing.T) {
	templates := TaskTemplates()
	if len(templates) != 10 {
		t.Fatalf("expected 10 templates, got %d", len(templates))
	}

	tpl := TaskTemplateByID("1")
	if tpl == nil || tpl.Name == "" {
		t.Fatal("expected template 1 to exist")
	}
	if TaskTemplateByID("no-such") != nil {
		t.Error("expected nil for unknown template id")
	}

	// The returned slice is a copy.
	templates[0].Name = "mutated"
	if TaskTemplates()[0].Name == "mutated" {
		t.Error("expected TaskTemplates to return a copy")
	}
}

func TestStatusValidators(t *testing.T) {
	if !ValidMoveStatus(MoveStatusPlanning) || ValidMoveStatus("shipped") {
		t.Error("ValidMoveStatus misclassified a status")
	}
	if !ValidTaskStatus(TaskStatusInProgress) || ValidTaskStatus("") {
		t.Error("ValidTaskStatus misclassified a status")
	}
	if !ValidBoxType(BoxTypeClothing) || ValidBoxType("crate") {
		t.Error("ValidBoxType misclassified a type")
	}
	if !ValidCondition(ConditionPoor) || ValidCondition("broken") {
		t.Error("ValidCondition misclassified a condition")
	}
}
