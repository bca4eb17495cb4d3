package catalog

import (
	"errors"

	"github.com/aescanero/demoflow/pkg/domain"
)

// ErrScenarioNotFound is returned when a scenario id is not in the catalog
var ErrScenarioNotFound = errors.New("scenario not found")

// Entry pairs a scenario with its ordered stage plans. The plan list length
// always equals the scenario's stage count.
type Entry struct {
	Scenario domain.Scenario
	Plans    []domain.StagePlan
}

// Catalog holds the built-in demo scenarios
type Catalog struct {
	order   []string
	entries map[string]Entry
}

// New creates a catalog with the built-in scenarios
func New() *Catalog {
	c := &Catalog{entries: make(map[string]Entry)}
	for _, entry := range builtin() {
		c.order = append(c.order, entry.Scenario.ID)
		c.entries[entry.Scenario.ID] = entry
	}
	return c
}

// Get returns the scenario and stage plans for an id
func (c *Catalog) Get(id string) (domain.Scenario, []domain.StagePlan, error) {
	entry, ok := c.entries[id]
	if !ok {
		return domain.Scenario{}, nil, ErrScenarioNotFound
	}
	return entry.Scenario, entry.Plans, nil
}

// List returns all scenarios in catalog order
func (c *Catalog) List() []domain.Scenario {
	scenarios := make([]domain.Scenario, 0, len(c.order))
	for _, id := range c.order {
		scenarios = append(scenarios, c.entries[id].Scenario)
	}
	return scenarios
}

// builtin returns the compiled-in scenario set. Stage plans follow ATT&CK
// tactic/technique identifiers; the orchestration core carries them through
// without interpreting them.
func builtin() []Entry {
	return []Entry{
		{
			Scenario: domain.Scenario{
				ID:          "apt29",
				Name:        "APT29 Espionage Emulation",
				Description: "Targeted intrusion from spearphishing through exfiltration, modeled on APT29 tradecraft",
				Category:    "apt",
				StageCount:  8,
			},
			Plans: []domain.StagePlan{
				{TacticID: "TA0001", TacticName: "Initial Access", TechniqueIDs: []string{"T1566.001"}},
				{TacticID: "TA0002", TacticName: "Execution", TechniqueIDs: []string{"T1059.001"}},
				{TacticID: "TA0003", TacticName: "Persistence", TechniqueIDs: []string{"T1547.001"}},
				{TacticID: "TA0004", TacticName: "Privilege Escalation", TechniqueIDs: []string{"T1548.002"}},
				{TacticID: "TA0006", TacticName: "Credential Access", TechniqueIDs: []string{"T1003.001"}},
				{TacticID: "TA0007", TacticName: "Discovery", TechniqueIDs: []string{"T1082", "T1018"}},
				{TacticID: "TA0008", TacticName: "Lateral Movement", TechniqueIDs: []string{"T1021.002"}},
				{TacticID: "TA0010", TacticName: "Exfiltration", TechniqueIDs: []string{"T1041"}},
			},
		},
		{
			Scenario: domain.Scenario{
				ID:          "ransomware",
				Name:        "Ransomware Outbreak",
				Description: "Opportunistic intrusion escalating to domain-wide encryption and recovery sabotage",
				Category:    "crimeware",
				StageCount:  6,
			},
			Plans: []domain.StagePlan{
				{TacticID: "TA0001", TacticName: "Initial Access", TechniqueIDs: []string{"T1190"}},
				{TacticID: "TA0002", TacticName: "Execution", TechniqueIDs: []string{"T1204.002"}},
				{TacticID: "TA0006", TacticName: "Credential Access", TechniqueIDs: []string{"T1110.003"}},
				{TacticID: "TA0008", TacticName: "Lateral Movement", TechniqueIDs: []string{"T1570", "T1021.001"}},
				{TacticID: "TA0011", TacticName: "Command and Control", TechniqueIDs: []string{"T1071.001"}},
				{TacticID: "TA0040", TacticName: "Impact", TechniqueIDs: []string{"T1486", "T1490"}},
			},
		},
		{
			Scenario: domain.Scenario{
				ID:          "phishing",
				Name:        "Phishing Credential Theft",
				Description: "Credential harvesting campaign against webmail accounts",
				Category:    "crimeware",
				StageCount:  4,
			},
			Plans: []domain.StagePlan{
				{TacticID: "TA0043", TacticName: "Reconnaissance", TechniqueIDs: []string{"T1598.003"}},
				{TacticID: "TA0001", TacticName: "Initial Access", TechniqueIDs: []string{"T1566.002"}},
				{TacticID: "TA0006", TacticName: "Credential Access", TechniqueIDs: []string{"T1539"}},
				{TacticID: "TA0009", TacticName: "Collection", TechniqueIDs: []string{"T1114.002"}},
			},
		},
		{
			Scenario: domain.Scenario{
				ID:          "supply-chain",
				Name:        "Supply Chain Compromise",
				Description: "Trojanized vendor update delivering a backdoor into the build pipeline",
				Category:    "apt",
				StageCount:  5,
			},
			Plans: []domain.StagePlan{
				{TacticID: "TA0001", TacticName: "Initial Access", TechniqueIDs: []string{"T1195.002"}},
				{TacticID: "TA0003", TacticName: "Persistence", TechniqueIDs: []string{"T1554"}},
				{TacticID: "TA0005", TacticName: "Defense Evasion", TechniqueIDs: []string{"T1553.002"}},
				{TacticID: "TA0011", TacticName: "Command and Control", TechniqueIDs: []string{"T1071.004", "T1568.002"}},
				{TacticID: "TA0010", TacticName: "Exfiltration", TechniqueIDs: []string{"T1567.002"}},
			},
		},
		{
			Scenario: domain.Scenario{
				ID:          "insider-threat",
				Name:        "Insider Data Theft",
				Description: "Privileged insider staging and removing sensitive data",
				Category:    "insider",
				StageCount:  3,
			},
			Plans: []domain.StagePlan{
				{TacticID: "TA0007", TacticName: "Discovery", TechniqueIDs: []string{"T1083"}},
				{TacticID: "TA0009", TacticName: "Collection", TechniqueIDs: []string{"T1005", "T1560.001"}},
				{TacticID: "TA0010", TacticName: "Exfiltration", TechniqueIDs: []string{"T1052.001"}},
			},
		},
	}
}
