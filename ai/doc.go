// Copyright 2026 Promptstash Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the embedding services used by
// Promptstash.
//
// The core domain depends only on the interfaces defined here;
// implementations live in sub-packages:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return
// INTERFACE types to enforce abstraction and prevent accidental
// coupling to concrete implementations. Test utility constructors
// (mock.NewMockEmbedder) return CONCRETE types so tests can assert on
// call counts and inject behavior.
//
// Because embedding models load slowly (or may not be reachable at
// all), LazyEmbedder wraps any constructor and loads it in the
// background. Consumers check ReadyReporter.Ready and degrade to
// keyword-only behavior instead of blocking.
package ai
