/*
 Copyright (c) 2025 Arenadata Softwer LLC.
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package cmd

var (
	n8nAgent = agent{
		name:   "n8n",
		title:  "n8n",
		header: "n8n Environment Configuration",
		hint:   "You can now start the agent by running: npm start",
	}

	vscodeAgent = agent{
		name:     "vscode",
		title:    "VSCode",
		hint:     "You can now start the agent by running: npm start",
		key:      "API_KEY",
		prompt:   "Please enter your API Key for the VSCode Agent:",
		masked:   true,
		required: true,
	}

	chatgptAgent = agent{
		name:   "chatgpt",
		title:  "ChatGPT",
		hint:   "You can now run the agent by executing: python3 chatgpt_agent.py",
		key:    "OPENAI_API_KEY",
		prompt: "Please enter your OpenAI API Key:",
	}

	agents = []agent{n8nAgent, vscodeAgent, chatgptAgent}
)
