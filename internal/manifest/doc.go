// Package manifest builds a structural container model from a Dockerfile.
//
// The Dockerfile is tokenized by buildkit's parser and the resulting
// instruction nodes are walked in source order. Only a handful of
// instructions contribute to the model:
//
//   - FROM sets the base image and the stage name (last stage wins)
//   - LABEL adds key/value pairs (later keys overwrite earlier ones)
//   - EXPOSE adds network ports ("8080", "8080/tcp", "53/udp")
//   - VOLUME adds mount points (JSON array or shell-word list)
//
// Every instruction, contributing or not, is recorded verbatim in
// Container.Instructions. A malformed EXPOSE or VOLUME argument degrades
// to no contribution and never fails the parse.
//
// # Example
//
//	c, err := manifest.ParseFile("Dockerfile")
//	if err != nil {
//	    return err
//	}
//	for _, p := range c.ExposedPorts {
//	    fmt.Printf("%d/%s\n", p.PortNumber, p.Protocol)
//	}
package manifest
