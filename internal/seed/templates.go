package seed

import "mail-triage/internal/models"

// DefaultTemplates returns the mails every new mailbox starts with
func DefaultTemplates() []models.Template {
	return []models.Template{
		{
			Subject: "Assignment 3 submission",
			Body:    "Submit your DBMS assignment on the portal by 5 Oct. Late submissions lose 20%.",
		},
		{
			Subject: "Placement drive: Infosys",
			Body:    "Infosys is recruiting final year students. Register by 12 Oct through the placement cell.",
		},
		{
			Subject: "Hackathon 2.0 registrations open",
			Body:    "Form teams of four and register before 20 Nov. Prizes worth 50k.",
		},
		{
			Subject: "Semester fee payment",
			Body:    "The last date for paying the semester fee is 30 Sep. A late fine applies afterwards.",
		},
		{
			Subject: "Guest lecture on distributed systems",
			Body:    "Join us in the main auditorium on Friday. Attendance is optional.",
		},
		{
			Subject: "Assignment 3 submission",
			Body:    "Reminder: the assignment is due 5 Oct. Submit on the portal.",
		},
		{
			Subject: "Internship interview schedule",
			Body:    "Shortlisted candidates will be interviewed on 3 Nov. Carry a printed resume.",
		},
		{
			Subject: "Library timings extended",
			Body:    "The central library now stays open until midnight on weekdays.",
		},
		{
			Subject: "Scholarship application",
			Body:    "Apply by the end of the month. Documents must be attested.",
		},
		{
			Subject: "Robotics club workshop",
			Body:    "Hands-on workshop on 14 Dec. Register by 10 Dec to reserve a kit.",
		},
	}
}
