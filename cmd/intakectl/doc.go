// Command intakectl runs the identity text intake service.
//
// The service exposes POST /process_text. Each request carries OCR text of a
// Romanian identity document; the labelled fields are extracted, stored in
// the person_data table and sent as a plain text email.
//
// # Quick Start
//
//	# Create the schema
//	intakectl db migrate
//
//	# Start the server
//	EMAIL_USER=... EMAIL_PASS=... TO_EMAIL=... intakectl server
//
//	# Try the extractor without a server
//	intakectl extract scan.txt
//
// # Environment Variables
//
//   - PORT, BIND_ADDRESS: listen address (default 0.0.0.0:8080)
//   - INTAKE_DATABASE_DRIVER: sqlite or postgres (default sqlite)
//   - INTAKE_DATABASE_PATH: sqlite database file (default data.db)
//   - DATABASE_URL: PostgreSQL connection string
//   - EMAIL_USER, EMAIL_PASS, TO_EMAIL: notification credentials and recipient
//   - INTAKE_LOG_LEVEL: debug, info, warn or error
//   - INTAKE_CONFIG_PATH: directory holding intake.yml (default /etc/intake)
//
// Without mail credentials records are still stored and the email is skipped.
package main
