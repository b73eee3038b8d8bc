package domain

// Branch is the routing destination for a classified support request.
type Branch string

const (
	BranchGroup3       Branch = "group3"
	BranchGroup4       Branch = "group4"
	BranchOther        Branch = "other"
	BranchUnknown      Branch = "unknown"
	BranchNoCareNeeded Branch = "no_care_needed"
)

// Action is the instruction the orchestrating caller executes for a decision.
type Action string

const (
	ActionProceedToGroup3      Action = "proceed_to_group3"
	ActionTransferToGroup4     Action = "transfer_to_group4"
	ActionReturnToPreviousStep Action = "return_to_previous_step"
	ActionAskForClarification  Action = "ask_for_clarification"
	ActionStopExecution        Action = "stop_execution"
)

// CareLevel is the clinical urgency tier of a category, independent of its branch.
// The zero value means the category carries no urgency tier.
type CareLevel string

const (
	CareLevelUrgent   CareLevel = "URGENT"
	CareLevelModerate CareLevel = "MODERATE"
	CareLevelLow      CareLevel = "LOW"
)

// ConfidenceWarning grades how severely a low classifier confidence
// should be surfaced to the caller.
type ConfidenceWarning string

const (
	ConfidenceWarningCritical ConfidenceWarning = "CRITICAL"
	ConfidenceWarningLow      ConfidenceWarning = "LOW"
)
