package cvforge

// sampleCV is the starter document written by `cvforge init`. It exercises
// every entry kind so new users see the full input surface.
const sampleCV = `name: Jane Doe
label: Senior Software Engineer
location: Lisbon, Portugal
email: jane.doe@example.com
phone: "+14155552671"
website: https://janedoe.example.com
social_networks:
  - network: github
    username: janedoe
  - network: linkedin
    username: jane-doe

sections:
  experience:
    - company: Acme Corp
      position: Senior Software Engineer
      location: Lisbon, Portugal
      start_date: 2021-03
      end_date: present
      summary: Backend platform work on the billing pipeline.
      highlights:
        - Cut invoice processing latency by 40%
        - Led the migration to event-driven ingestion
    - company: Widget Works
      position: Software Engineer
      start_date: 2018-07
      end_date: 2021-02
      highlights:
        - Built the internal deployment CLI

  education:
    - institution: University of Lisbon
      area: Computer Science
      degree: MSc
      start_date: 2016
      end_date: 2018
      highlights:
        - "Thesis: distributed consensus under partial synchrony"

  projects:
    - name: envcheck
      date: 2023-11
      url: https://github.com/janedoe/envcheck
      summary: Linter for twelve-factor configuration drift.

  publications:
    - title: Practical Consensus Tradeoffs
      authors:
        - Jane Doe
        - John Smith
      venue: SRE Review
      date: 2022-05
      doi: 10.1000/example.2022.001

  skills:
    - label: Languages
      details: Go, Python, SQL
    - label: Infrastructure
      details: Kubernetes, Terraform, PostgreSQL

  interests:
    - Long-distance cycling
    - Analog photography
`

// NewSampleCV returns a complete example document covering every entry kind.
// It is guaranteed to pass validation.
func NewSampleCV() []byte {
	return []byte(sampleCV)
}
