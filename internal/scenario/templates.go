package scenario

import "github.com/axiomlogic/axiom/internal/model"

// Templates is the built-in playbook for founder and employment
// agreements. Each entry describes a life event that routinely collides
// with equity clauses; red flags are phrases whose presence in the
// governing clause marks the scenario as failed regardless of outcome.
func Templates() []model.ScenarioSpec {
	return []model.ScenarioSpec{
		{
			Name:             "Resignation for good reason",
			Description:      "Founder resigns after the company materially reduces their salary or duties",
			TriggerEvent:     "Founder resigns for Good Reason after a material reduction in base salary",
			ExpectedBehavior: "Founder retains vested shares; the resignation is not treated as a bad leaver event",
			RedFlags:         []string{"regardless of the reason", "for any reason", "irrespective of cause"},
			Source:           model.SourceTemplate,
			Priority:         100,
		},
		{
			Name:             "Serious illness",
			Description:      "Founder is unable to work for several months due to a serious medical condition",
			TriggerEvent:     "Founder cannot perform duties for six months due to serious illness",
			ExpectedBehavior: "Founder retains vested shares and is not terminated for cause during medical leave",
			RedFlags:         []string{"regardless of the reason", "any absence"},
			Source:           model.SourceTemplate,
			Priority:         90,
		},
		{
			Name:             "Termination without cause",
			Description:      "The company terminates the founder's engagement without any stated cause",
			TriggerEvent:     "Company terminates the Founder without Cause",
			ExpectedBehavior: "Founder retains vested shares; only unvested shares may be forfeited",
			RedFlags:         []string{"vested and unvested", "all shares, whether vested"},
			Source:           model.SourceTemplate,
			Priority:         85,
		},
		{
			Name:             "Death or disability",
			Description:      "Founder dies or becomes permanently disabled during the vesting period",
			TriggerEvent:     "Founder dies or becomes permanently disabled",
			ExpectedBehavior: "Vested shares pass to the estate; vesting accelerates or continues, no forfeiture",
			RedFlags:         []string{"deemed a bad leaver", "forfeit all"},
			Source:           model.SourceTemplate,
			Priority:         80,
		},
		{
			Name:             "Disagreement with the board",
			Description:      "Founder is voted out after a strategic disagreement with investors",
			TriggerEvent:     "Founder is removed by board vote after disagreement over company strategy",
			ExpectedBehavior: "Removal without cause does not forfeit vested shares",
			RedFlags:         []string{"sole discretion", "deemed a bad leaver"},
			Source:           model.SourceTemplate,
			Priority:         70,
		},
		{
			Name:             "Departure to a non-competing venture",
			Description:      "Founder leaves voluntarily to start an unrelated, non-competing business",
			TriggerEvent:     "Founder voluntarily resigns to start a non-competing business",
			ExpectedBehavior: "Founder forfeits unvested shares only and keeps vested shares",
			RedFlags:         []string{"vested and unvested", "forfeit all shares"},
			Source:           model.SourceTemplate,
			Priority:         60,
		},
	}
}
