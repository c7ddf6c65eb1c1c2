package i18n

// Message IDs.
const (
	AgentSystem = "agent.system"

	SupervisorSystem = "supervisor.system"

	PlannerSystem      = "planner.system"
	PlannerTask        = "planner.task"
	PlannerInstruction = "planner.instruction"

	FinalBossSystem      = "finalboss.system"
	FinalBossInstruction = "finalboss.instruction"

	PrimerWorkQuestion      = "primer.work.question"
	PrimerWorkIntro         = "primer.work.intro"
	PrimerWorkItem          = "primer.work.item"
	PrimerNoWork            = "primer.work.none"
	PrimerKnowledgeQuestion = "primer.knowledge.question"
	PrimerKnowledge         = "primer.knowledge.answer"
	PrimerNoKnowledge       = "primer.knowledge.none"
	PrimerRequestQuestion   = "primer.request.question"
	RequestOutput           = "request.output"

	StatusSupervisor   = "status.supervisor"
	StatusPlanner      = "status.planner"
	StatusToolResponse = "status.tool_response"
	StatusWorking      = "status.working"
	StatusWaiting      = "status.waiting"
	StatusPaused       = "status.paused"
	StatusDone         = "status.done"
	StatusFailed       = "status.failed"
)

var builtinTexts = map[string]map[string]string{
	"en": {
		AgentSystem: `{{.Description}}

You are one member of a team working towards a larger objective. Complete the task you were given, one step at a time.

Rules:
- Respond with kind "step" and put the outcome of this step in "result". Use your own name for "name".
- When more work is needed, set "has_next_step" to true and describe what you will do next in "next_step".
- When the task is done, set "has_next_step" to false, leave "next_step" empty and put the complete answer in "result".
- Use the available tools when they help and wait for their results before answering.
- If the task cannot be completed, respond with kind "error" and explain why in "reasoning".
{{- if .Instruction}}

{{.Instruction}}
{{- end}}`,
		SupervisorSystem: `You are the supervisor of a team of agents. You split the request into tasks and hand them out one at a time.

Your team:
{{- range .Team}}
- {{.Name}}: {{.Description}}
{{- end}}

Look at the request and the work completed so far, then decide on the next task.
Describe the task so that a single team member can complete it on its own.
When the completed work fully answers the request, respond with an empty "task".`,
		PlannerSystem: `You are a resource planner. Choose the one team member best suited to complete the task.

Team members:
{{- range .Team}}
- {{.Name}}: {{.Description}}
{{- end}}

Respond with the exact name of the chosen member in "agent".`,
		PlannerTask:        "Task: {{.Task}}",
		PlannerInstruction: "Which team member should complete this task?",
		FinalBossSystem: `You are the final reviewer of a team of agents. The team has run out of time.

Using the request and all the work completed so far, write the best possible final answer.
The answer must stand on its own even if some parts of the request could not be completed.
{{- if .Output}}

The answer must match the expected output: {{.Output}}
{{- end}}`,
		FinalBossInstruction:    "Write the final answer to the request.",
		PrimerWorkQuestion:      "What has been done so far?",
		PrimerWorkIntro:         "Here is all the work done so far by other agents:",
		PrimerWorkItem:          "- {{.Agent}} was asked to: {{.Task}}\n  Result: {{.Result}}",
		PrimerNoWork:            "Nothing has been done so far.",
		PrimerKnowledgeQuestion: "Is there anything else I need to know?",
		PrimerKnowledge:         "Here is all the knowledge available: {{.Knowledge}}",
		PrimerNoKnowledge:       "No, I do not have any additional information.",
		PrimerRequestQuestion:   "What is the request?",
		RequestOutput:           "Expected output: {{.Output}}",
		StatusSupervisor:        "Looking for next task...",
		StatusPlanner:           "Looking for best agent...",
		StatusToolResponse:      "Processing tool response...",
		StatusWorking:           "Working on: {{.Content}}",
		StatusWaiting:           "Waiting for tools: {{.Tools}}",
		StatusPaused:            "Paused",
		StatusDone:              "Done",
		StatusFailed:            "Failed",
	},
	"pl": {
		AgentSystem: `{{.Description}}

Jesteś członkiem zespołu pracującego nad większym celem. Wykonaj przydzielone zadanie krok po kroku.

Zasady:
- Odpowiedz z kind "step" i umieść wynik tego kroku w "result". W polu "name" podaj swoją nazwę.
- Jeśli potrzeba więcej pracy, ustaw "has_next_step" na true i opisz kolejny krok w "next_step".
- Gdy zadanie jest wykonane, ustaw "has_next_step" na false, zostaw "next_step" puste i umieść pełną odpowiedź w "result".
- Korzystaj z dostępnych narzędzi, gdy pomagają, i poczekaj na ich wyniki przed odpowiedzią.
- Jeśli zadania nie da się wykonać, odpowiedz z kind "error" i wyjaśnij powód w "reasoning".
{{- if .Instruction}}

{{.Instruction}}
{{- end}}`,
		SupervisorSystem: `Jesteś nadzorcą zespołu agentów. Dzielisz zadanie na mniejsze zadania i przydzielasz je po jednym.

Twój zespół:
{{- range .Team}}
- {{.Name}}: {{.Description}}
{{- end}}

Przeanalizuj zadanie i dotychczas wykonaną pracę, a następnie ustal kolejne zadanie.
Opisz je tak, aby jeden członek zespołu mógł je wykonać samodzielnie.
Gdy wykonana praca w pełni odpowiada na zadanie, zwróć puste "task".`,
		PlannerSystem: `Jesteś planistą zasobów. Wybierz jednego członka zespołu najlepiej nadającego się do wykonania zadania.

Członkowie zespołu:
{{- range .Team}}
- {{.Name}}: {{.Description}}
{{- end}}

W polu "agent" podaj dokładną nazwę wybranego członka.`,
		PlannerTask:        "Zadanie: {{.Task}}",
		PlannerInstruction: "Który członek zespołu powinien wykonać to zadanie?",
		FinalBossSystem: `Jesteś końcowym recenzentem zespołu agentów. Zespołowi skończył się czas.

Na podstawie zadania i całej dotychczas wykonanej pracy napisz najlepszą możliwą odpowiedź końcową.
Odpowiedź musi być samodzielna, nawet jeśli części zadania nie udało się wykonać.
{{- if .Output}}

Odpowiedź musi odpowiadać oczekiwanemu formatowi: {{.Output}}
{{- end}}`,
		FinalBossInstruction:    "Napisz końcową odpowiedź na zadanie.",
		PrimerWorkQuestion:      "Co zostało dotychczas zrobione?",
		PrimerWorkIntro:         "Oto cała praca wykonana dotychczas przez innych agentów:",
		PrimerWorkItem:          "- {{.Agent}} otrzymał zadanie: {{.Task}}\n  Wynik: {{.Result}}",
		PrimerNoWork:            "Nic jeszcze nie zostało zrobione.",
		PrimerKnowledgeQuestion: "Czy jest coś jeszcze, co powinienem wiedzieć?",
		PrimerKnowledge:         "Oto cała dostępna wiedza: {{.Knowledge}}",
		PrimerNoKnowledge:       "Nie, nie mam żadnych dodatkowych informacji.",
		PrimerRequestQuestion:   "Jakie jest zadanie?",
		RequestOutput:           "Oczekiwany wynik: {{.Output}}",
		StatusSupervisor:        "Szukam następnego zadania...",
		StatusPlanner:           "Szukam najlepszego agenta...",
		StatusToolResponse:      "Przetwarzanie odpowiedzi narzędzia...",
		StatusWorking:           "Pracuję nad: {{.Content}}",
		StatusWaiting:           "Oczekiwanie na narzędzia: {{.Tools}}",
		StatusPaused:            "Wstrzymane",
		StatusDone:              "Zakończono",
		StatusFailed:            "Nie powiodło się",
	},
	"de": {
		AgentSystem: `{{.Description}}

Sie sind Mitglied eines Teams, das an einem größeren Ziel arbeitet. Erledigen Sie die zugewiesene Aufgabe Schritt für Schritt.

Regeln:
- Antworten Sie mit kind "step" und legen Sie das Ergebnis dieses Schritts in "result" ab. Verwenden Sie Ihren eigenen Namen für "name".
- Wenn mehr Arbeit nötig ist, setzen Sie "has_next_step" auf true und beschreiben Sie den nächsten Schritt in "next_step".
- Wenn die Aufgabe erledigt ist, setzen Sie "has_next_step" auf false, lassen Sie "next_step" leer und legen Sie die vollständige Antwort in "result" ab.
- Nutzen Sie die verfügbaren Werkzeuge, wenn sie helfen, und warten Sie vor der Antwort auf deren Ergebnisse.
- Wenn die Aufgabe nicht erledigt werden kann, antworten Sie mit kind "error" und erklären Sie den Grund in "reasoning".
{{- if .Instruction}}

{{.Instruction}}
{{- end}}`,
		SupervisorSystem: `Sie sind der Supervisor eines Teams von Agenten. Sie teilen die Anfrage in Aufgaben auf und vergeben sie einzeln.

Ihr Team:
{{- range .Team}}
- {{.Name}}: {{.Description}}
{{- end}}

Prüfen Sie die Anfrage und die bisher erledigte Arbeit und bestimmen Sie die nächste Aufgabe.
Beschreiben Sie die Aufgabe so, dass ein einzelnes Teammitglied sie selbstständig erledigen kann.
Wenn die erledigte Arbeit die Anfrage vollständig beantwortet, antworten Sie mit einem leeren "task".`,
		PlannerSystem: `Sie sind ein Ressourcenplaner. Wählen Sie das eine Teammitglied, das am besten für die Aufgabe geeignet ist.

Teammitglieder:
{{- range .Team}}
- {{.Name}}: {{.Description}}
{{- end}}

Geben Sie in "agent" den exakten Namen des gewählten Mitglieds an.`,
		PlannerTask:        "Aufgabe: {{.Task}}",
		PlannerInstruction: "Welches Teammitglied soll diese Aufgabe erledigen?",
		FinalBossSystem: `Sie sind der abschließende Prüfer eines Teams von Agenten. Dem Team ist die Zeit ausgegangen.

Schreiben Sie anhand der Anfrage und aller bisher erledigten Arbeit die bestmögliche endgültige Antwort.
Die Antwort muss für sich allein stehen, auch wenn Teile der Anfrage nicht erledigt werden konnten.
{{- if .Output}}

Die Antwort muss der erwarteten Ausgabe entsprechen: {{.Output}}
{{- end}}`,
		FinalBossInstruction:    "Schreiben Sie die endgültige Antwort auf die Anfrage.",
		PrimerWorkQuestion:      "Was wurde bisher getan?",
		PrimerWorkIntro:         "Hier ist die gesamte bisherige Arbeit anderer Agenten:",
		PrimerWorkItem:          "- {{.Agent}} sollte: {{.Task}}\n  Ergebnis: {{.Result}}",
		PrimerNoWork:            "Bisher wurde nichts getan.",
		PrimerKnowledgeQuestion: "Gibt es noch etwas, das ich wissen muss?",
		PrimerKnowledge:         "Hier ist das gesamte verfügbare Wissen: {{.Knowledge}}",
		PrimerNoKnowledge:       "Nein, ich habe keine weiteren Informationen.",
		PrimerRequestQuestion:   "Was ist die Anfrage?",
		RequestOutput:           "Erwartete Ausgabe: {{.Output}}",
		StatusSupervisor:        "Suche nach der nächsten Aufgabe...",
		StatusPlanner:           "Suche nach dem besten Agenten...",
		StatusToolResponse:      "Verarbeitung der Werkzeugantwort...",
		StatusWorking:           "Arbeiten an: {{.Content}}",
		StatusWaiting:           "Warten auf Werkzeuge: {{.Tools}}",
		StatusPaused:            "Pausiert",
		StatusDone:              "Fertig",
		StatusFailed:            "Fehlgeschlagen",
	},
	"fr": {
		PrimerWorkQuestion:      "Qu'est-ce qui a été fait jusqu'à présent ?",
		PrimerWorkIntro:         "Voici tout le travail effectué jusqu'à présent par les autres agents :",
		PrimerNoWork:            "Rien n'a encore été fait.",
		PrimerKnowledgeQuestion: "Y a-t-il autre chose que je dois savoir ?",
		PrimerKnowledge:         "Voici toutes les connaissances disponibles : {{.Knowledge}}",
		PrimerNoKnowledge:       "Non, je n'ai aucune information supplémentaire.",
		PrimerRequestQuestion:   "Quelle est la demande ?",
		StatusSupervisor:        "Recherche de la prochaine tâche...",
		StatusPlanner:           "Recherche du meilleur agent...",
		StatusToolResponse:      "Traitement de la réponse de l'outil...",
		StatusWorking:           "Travail sur : {{.Content}}",
		StatusWaiting:           "En attente des outils : {{.Tools}}",
		StatusPaused:            "En pause",
		StatusDone:              "Terminé",
		StatusFailed:            "Échoué",
	},
	"es": {
		PrimerWorkQuestion:      "¿Qué se ha hecho hasta ahora?",
		PrimerWorkIntro:         "Este es todo el trabajo realizado hasta ahora por otros agentes:",
		PrimerNoWork:            "No se ha hecho nada todavía.",
		PrimerKnowledgeQuestion: "¿Hay algo más que necesite saber?",
		PrimerKnowledge:         "Este es todo el conocimiento disponible: {{.Knowledge}}",
		PrimerNoKnowledge:       "No, no tengo información adicional.",
		PrimerRequestQuestion:   "¿Cuál es la solicitud?",
		StatusSupervisor:        "Buscando la siguiente tarea...",
		StatusPlanner:           "Buscando al mejor agente...",
		StatusToolResponse:      "Procesando la respuesta de la herramienta...",
		StatusWorking:           "Trabajando en: {{.Content}}",
		StatusWaiting:           "Esperando herramientas: {{.Tools}}",
		StatusPaused:            "Pausado",
		StatusDone:              "Hecho",
		StatusFailed:            "Fallido",
	},
}
