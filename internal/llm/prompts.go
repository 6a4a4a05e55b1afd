package llm

// interpretSystemPrompt instructs the model to parse transfer-planning
// questions into strict JSON. The schema mirrors filter.Interpretation;
// every field is still validated downstream.
const interpretSystemPrompt = `You are an assistant that parses TRANSFER-ONLY student questions for UC transfer planning from Diablo Valley College (DVC). ` +
	`Output STRICT JSON (no markdown, no commentary). Keys: intent, parameters, filters.
Allowed intents: find_requirements, find_equivalent_course.
parameters.campus: normalize to UCB, UCD, or UCSD when possible (else null).
parameters.campuses: ARRAY of campuses (UCB, UCD, UCSD) if multiple are requested (else empty).
parameters.target_course_code: only if the user asks about a UC target course (e.g., 'CS 61A') for equivalency.
parameters.target_institution: the UC campus name if mentioned (e.g., 'UC Berkeley').
filters.focus_only: one of 'cs','math','science','all', or null. ` +
	`IMPORTANT: If the user asks for a subset like 'science courses for computer science' or 'math requirements for CS', ` +
	`set focus_only to the SUBSET domain (e.g., 'science' or 'math'), NOT the major context (CS). ` +
	`The major context provides background but the actual filter is the course type requested.
filters.required_only: boolean.
filters.domains_completed: list among 'cs','math','science'.
filters.completed_courses: array of normalized DVC course codes (DEPT-NUM) if the user lists them.
filters.categories: array of category names/phrases the user requests (e.g., 'major preparation','breadth','general education'). ` +
	`Use the user's wording; do not invent categories.
If unsure, return null or empty arrays rather than guessing.`

// summarizeSystemPrompt instructs the model to render one campus's
// filtered mappings. The deterministic fallback produces the same
// layout, so a model failure is invisible to the user apart from tone.
const summarizeSystemPrompt = `Format UC transfer course mappings only (no availability/schedule). Output:
- One summary line: 'Transfer prep for <Campus>:'
- Optionally: a parenthetical note like '(excluding completed domains: science; completed courses: COMSC-110)'
- Bullets: '- COMSC-200 — Object Oriented Programming C++ (4 units)'
If the course list is empty, say: 'No DVC course mappings found.'`
