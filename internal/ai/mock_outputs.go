package ai

import "github.com/MohamadRazaviDev/ApplyTrack/internal/model"

// mockOutputs はモックモードで返す種別ごとのサンプル出力。
// いずれもValidateOutputの検証を通過する。
var mockOutputs = map[model.AIOutputKind]string{
	model.KindParseJD: `{
  "role_title": "Backend Engineer",
  "seniority": "Mid-level",
  "must_have_skills": [
    {"name": "Go", "evidence": {"source": "job_description", "text": "3+ years Go experience required"}},
    {"name": "REST API design", "evidence": {"source": "job_description", "text": "Build REST APIs"}},
    {"name": "PostgreSQL", "evidence": {"source": "job_description", "text": "Design and maintain PostgreSQL schemas"}}
  ],
  "nice_to_have_skills": [
    {"name": "Redis", "evidence": {"source": "job_description", "text": "Caching layer experience preferred"}},
    {"name": "Docker", "evidence": null}
  ],
  "responsibilities": [
    "Design and build scalable backend services",
    "Write automated tests and maintain CI pipelines",
    "Participate in code reviews and architectural discussions"
  ],
  "keywords": ["microservices", "REST", "concurrency", "CI/CD", "testing"],
  "questions_to_ask": [
    "What does the on-call rotation look like?",
    "How is the team structured?"
  ]
}`,
	model.KindMatch: `{
  "match_score": 78,
  "strong_matches": [
    {"item": "Go", "evidence": {"source": "profile", "text": "5 years building backend services with Go"}},
    {"item": "PostgreSQL", "evidence": {"source": "profile", "text": "Designed schemas and migrations for a production tracker"}}
  ],
  "gaps": [
    {"item": "Kubernetes", "evidence": null}
  ],
  "recommended_projects": ["ApplyTrack", "Alert AI Agent"],
  "recommended_experience": ["Backend Developer at Acme Corp"]
}`,
	model.KindTailorCV: `{
  "tailored_summary": "Backend engineer with 5 years of experience building production APIs. Comfortable with Go, PostgreSQL, and background job processing.",
  "bullet_suggestions": [
    {"bullet": "Designed and shipped a real-time job-tracking API serving 500+ req/s", "evidence": {"source": "profile", "text": "Built ApplyTrack backend"}},
    {"bullet": "Implemented structured AI pipelines with schema validation and background workers", "evidence": {"source": "profile", "text": "AI integration module"}}
  ],
  "top_keywords": ["Go", "PostgreSQL", "REST", "concurrency", "workers"],
  "warnings": ["Do not claim Kubernetes experience, it was not found in the profile"]
}`,
	model.KindOutreach: `{
  "linkedin_message": "Hi, I came across the Backend Engineer role at your company and wanted to reach out. I have been building backend systems for a few years now, most recently a full-stack job tracker. I would love to learn more about the team. Happy to chat whenever works for you.",
  "email_message": "Subject: Backend Engineer application\n\nHi,\n\nI saw the Backend Engineer position and it lines up well with my background in backend development and PostgreSQL. I have shipped production APIs and worked with background job processing.\n\nI would welcome the chance to discuss how I could contribute. My portfolio and resume are attached.\n\nBest regards"
}`,
	model.KindInterviewPrep: `{
  "likely_questions": [
    "Describe a time you had to debug a tricky production issue.",
    "How do you approach designing a new API from scratch?",
    "Walk me through your experience with concurrent programming.",
    "How do you handle database migrations in a production environment?"
  ],
  "checklist": [
    "Review the job description and map your experience to each requirement",
    "Prepare two STAR stories about backend debugging",
    "Be ready to whiteboard a simple system design",
    "Research the company's tech blog and recent product updates"
  ],
  "suggested_stories": [
    {
      "question": "Tell me about a complex backend system you built",
      "suggested_answer": "I built a full-stack job tracker with a background AI pipeline. The trickiest part was designing structured output validation in background tasks while keeping the API responsive.",
      "evidence": {"source": "profile", "text": "ApplyTrack project"}
    }
  ]
}`,
}
