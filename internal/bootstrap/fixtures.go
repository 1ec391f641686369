package bootstrap

const validPatient = `{
  "resourceType": "Patient",
  "id": "example",
  "text": {
    "status": "generated",
    "div": "<div xmlns=\"http://www.w3.org/1999/xhtml\">John Doe</div>"
  },
  "identifier": [{
    "system": "http://example.org/fhir/ids",
    "value": "12345"
  }],
  "active": true,
  "name": [{
    "use": "official",
    "family": "Doe",
    "given": ["John"]
  }],
  "gender": "male",
  "birthDate": "1970-01-01",
  "address": [{
    "use": "home",
    "line": ["123 Main St"],
    "city": "Anywhere",
    "state": "CA",
    "postalCode": "90210",
    "country": "USA"
  }]
}
`

const validObservation = `{
  "resourceType": "Observation",
  "id": "blood-pressure",
  "text": {
    "status": "generated",
    "div": "<div xmlns=\"http://www.w3.org/1999/xhtml\">Blood Pressure</div>"
  },
  "status": "final",
  "code": {
    "coding": [{
      "system": "http://loinc.org",
      "code": "55284-4",
      "display": "Blood Pressure"
    }]
  },
  "subject": {
    "reference": "Patient/example"
  },
  "effectiveDateTime": "2023-12-25T08:30:00+01:00",
  "valueQuantity": {
    "value": 120,
    "unit": "mmHg",
    "system": "http://unitsofmeasure.org",
    "code": "mm[Hg]"
  }
}
`

const patientMissingType = `{
  "id": "example",
  "name": [{
    "use": "official",
    "family": "Doe",
    "given": ["John"]
  }],
  "gender": "male"
}
`

const patientWrongGender = `{
  "resourceType": "Patient",
  "id": "example",
  "name": [{
    "use": "official",
    "family": "Smith",
    "given": ["Jane"]
  }],
  "gender": "invalid-gender",
  "birthDate": "1980-01-01"
}
`

const observationMissingStatus = `{
  "resourceType": "Observation",
  "id": "heart-rate",
  "code": {
    "coding": [{
      "system": "http://loinc.org",
      "code": "8867-4",
      "display": "Heart rate"
    }]
  },
  "subject": {
    "reference": "Patient/example"
  },
  "valueQuantity": {
    "value": 80,
    "unit": "beats/minute",
    "system": "http://unitsofmeasure.org",
    "code": "/min"
  }
}
`

const malformedJSON = `{
  "resourceType": "Patient"
  "id": "malformed-example"
  "name": [{
    "use": "official"
    "family": "Doe",
    "given": ["John"]
  }]
}
`

// Samples returns the sample document set keyed by file name.
func Samples() map[string]string {
	return map[string]string{
		"valid-patient.json":                      validPatient,
		"valid-observation.json":                  validObservation,
		"invalid-patient-missing-type.json":       patientMissingType,
		"invalid-patient-wrong-gender.json":       patientWrongGender,
		"invalid-observation-missing-status.json": observationMissingStatus,
		"malformed-json.json":                     malformedJSON,
	}
}
