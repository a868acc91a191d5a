// Package declare loads model and map declarations from YAML and applies
// them to a modeler.Registry.
//
// Functions (getters, compute rules, methods and custom validators) cannot be
// written in YAML; declarations reference them by name and a Funcs table
// supplies the implementations.
//
// # File Overview
//
//	version: "1"
//	models:
//	  - name: DbUser
//	    properties:
//	      - given_name                 # plain writable field
//	      - name: user_id
//	        readOnly: true
//	      - name: group
//	        type: DbGroup              # sub-model
//	  - name: DomainUser
//	    validate: true                 # validate on construction
//	    methods: [print]               # Funcs method names
//	    properties:
//	      - firstName
//	      - name: fullName
//	        get: FullName              # Funcs getter name
//	      - name: _role
//	        private: true
//	        default: user
//	      - name: email
//	        validation:                # checked in order
//	          presence: true
//	          string: {notEmpty: true}
//	maps:
//	  - source: DbUser
//	    target: DomainUser
//	    rules:                         # applied in document order
//	      firstName: given_name        # copy from a source key
//	      groupId: group.id            # flatten a nested source
//	      userId: true                 # copy the same key
//	      displayName: {func: DisplayName}
//
// Check reports problems as diagnostics before anything is registered;
// Apply compiles every declaration and fails on the first invalid one.
package declare
